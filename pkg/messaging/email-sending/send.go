package emailsending

import (
	"errors"
	"log/slog"

	workorderDB "github.com/program-framework/program-backend/pkg/db/workorder"
	httpclient "github.com/program-framework/program-backend/pkg/http-client"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
	smtpclient "github.com/program-framework/program-backend/pkg/smtp-client"
)

var (
	HttpClient         *httpclient.ClientConfig
	smtpClients        *smtpclient.SmtpClients
	workOrderDBService *workorderDB.WorkOrderDBService

	GlobalTemplateInfos = map[string]string{}
)

// InitMessageSendingVariables wires the sending path. When bridgeConfig is
// non-nil, emails go out through the SMTP bridge service; otherwise through
// the direct SMTP pools.
func InitMessageSendingVariables(
	bridgeConfig *httpclient.ClientConfig,
	clients *smtpclient.SmtpClients,
	globalTemplateInfos map[string]string,
	wdb *workorderDB.WorkOrderDBService,
) {
	HttpClient = bridgeConfig
	smtpClients = clients
	GlobalTemplateInfos = globalTemplateInfos
	workOrderDBService = wdb
}

type SendEmailReq struct {
	To              []string                        `json:"to"`
	Subject         string                          `json:"subject"`
	Content         string                          `json:"content"`
	HighPrio        bool                            `json:"highPrio"`
	HeaderOverrides *messagingTypes.HeaderOverrides `json:"headerOverrides"`
}

// SendOutgoingEmail delivers one prepared email, preferring the SMTP bridge
// when it is configured.
func SendOutgoingEmail(
	outgoing *messagingTypes.OutgoingEmail,
) error {
	if HttpClient != nil && HttpClient.RootURL != "" {
		return sendThroughBridge(outgoing)
	}
	if smtpClients == nil {
		return errors.New("email sending not initialized")
	}
	return smtpClients.SendMail(
		outgoing.To,
		outgoing.Subject,
		outgoing.Content,
		outgoing.HeaderOverrides,
	)
}

func sendThroughBridge(outgoing *messagingTypes.OutgoingEmail) error {
	sendEmailReq := SendEmailReq{
		To:              outgoing.To,
		Subject:         outgoing.Subject,
		Content:         outgoing.Content,
		HighPrio:        outgoing.HighPrio,
		HeaderOverrides: outgoing.HeaderOverrides,
	}
	resp, err := HttpClient.RunHTTPcall("/send-email", sendEmailReq)
	if err == nil && resp != nil {
		errMsg, hasError := resp["error"]
		if hasError {
			err = errors.New(errMsg.(string))
		}
	}
	return err
}

// SendInstantEmail tries to deliver right away and falls back to the outgoing
// queue so the runner can retry later.
func SendInstantEmail(
	outgoing *messagingTypes.OutgoingEmail,
) error {
	err := SendOutgoingEmail(outgoing)
	if err != nil {
		slog.Debug("error while sending email", slog.String("error", err.Error()))
		_, errS := workOrderDBService.AddToOutgoingEmails(*outgoing)
		if errS != nil {
			slog.Error("failed to save outgoing email", slog.String("error", errS.Error()))
			return errS
		}
		slog.Debug("failed to send email but saved to outgoing", slog.String("error", err.Error()))
		return err
	}

	_, err = workOrderDBService.AddToSentEmails(*outgoing)
	if err != nil {
		slog.Error("failed to save sent email", slog.String("error", err.Error()))
		return err
	}
	return nil
}
