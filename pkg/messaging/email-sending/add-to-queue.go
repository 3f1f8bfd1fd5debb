package emailsending

import (
	"log/slog"
	"strings"

	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

// QueueCampaignEmail stores one rendered campaign email in the outgoing
// collection. Global template constants are substituted here so queued
// content is final.
func QueueCampaignEmail(
	workOrderID string,
	to []string,
	subject string,
	content string,
	headerOverrides *messagingTypes.HeaderOverrides,
	highPrio bool,
) error {
	outgoing := messagingTypes.OutgoingEmail{
		WorkOrderID:     workOrderID,
		To:              to,
		Subject:         subject,
		Content:         applyGlobalTemplateInfos(content),
		HeaderOverrides: headerOverrides,
		HighPrio:        highPrio,
	}

	_, err := workOrderDBService.AddToOutgoingEmails(outgoing)
	if err != nil {
		slog.Error("failed to save outgoing email", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func applyGlobalTemplateInfos(content string) string {
	for key, value := range GlobalTemplateInfos {
		content = strings.ReplaceAll(content, "||"+key+"||", value)
	}
	return content
}
