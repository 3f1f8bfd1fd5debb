package main

import (
	"log/slog"
	"sync"
	"time"

	emailsending "github.com/program-framework/program-backend/pkg/messaging/email-sending"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

func checkIfOutgoingEmailShouldBeSent(email messagingTypes.OutgoingEmail) bool {
	if len(email.To) < 1 || len(email.To[0]) < 1 {
		slog.Error("no recipients found", slog.String("workOrderID", email.WorkOrderID))
		return false
	}
	return true
}

func handleOutgoingEmails(wg *sync.WaitGroup) {
	defer wg.Done()
	slog.Info("Start handling outgoing emails")

	counters := InitMessageCounter()
	for {
		if counters.Failed > MAX_FAILED_ATTEMPTS_BEFORE_STOP {
			slog.Error("Too many failed attempts, stopping outgoing email processing")
			break
		}
		outgoingEmails, err := workOrderDBService.GetOutgoingEmailsForSending(
			OUTGOING_EMAILS_BATCH_SIZE,
			conf.Intervals.LastSendAttemptLockDuration,
		)
		if err != nil {
			slog.Error("Failed to get outgoing emails for sending", slog.String("error", err.Error()))
			break
		}

		if len(outgoingEmails) == 0 {
			break
		}

		lastFetch := time.Now()

		// Send emails:
		for _, email := range outgoingEmails {
			batchDuration := time.Since(lastFetch)
			if batchDuration >= conf.Intervals.LastSendAttemptLockDuration {
				slog.Warn("Last batch took too long, breaking", slog.String("duration", batchDuration.String()))
				counters.IncreaseCounter(false)

				if err := workOrderDBService.ResetLastSendAttemptForOutgoing(email.ID); err != nil {
					slog.Error("Failed to reset last send attempt for outgoing email", slog.String("error", err.Error()))
				}
				continue
			}

			// detect emails that should not be sent - remove from db if so
			if !checkIfOutgoingEmailShouldBeSent(email) {
				counters.IncreaseCounter(false)
				if _, err := workOrderDBService.DeleteOutgoingEmail(email.ID); err != nil {
					slog.Error("Failed to delete outgoing email", slog.String("workOrderID", email.WorkOrderID), slog.String("error", err.Error()))
				}
				continue
			}

			err := emailsending.SendOutgoingEmail(&email)
			if err != nil {
				counters.IncreaseCounter(false)
				slog.Error("Failed to send email", slog.String("workOrderID", email.WorkOrderID), slog.String("error", err.Error()))

				if err := workOrderDBService.ResetLastSendAttemptForOutgoing(email.ID); err != nil {
					slog.Error("Failed to reset last send attempt for outgoing email", slog.String("error", err.Error()))
				}
				continue
			}

			if _, err := workOrderDBService.AddToSentEmails(email); err != nil {
				counters.IncreaseCounter(false)
				slog.Error("Failed to save sent email", slog.String("error", err.Error()))
				continue
			}
			if _, err := workOrderDBService.DeleteOutgoingEmail(email.ID); err != nil {
				slog.Error("Failed to delete outgoing email", slog.String("workOrderID", email.WorkOrderID), slog.String("error", err.Error()))
			}
			counters.IncreaseCounter(true)
		}
	}

	counters.Stop()
	slog.Info("Finished handling outgoing emails", slog.Int64("duration", counters.Duration), slog.Int("success", counters.Success), slog.Int("failed", counters.Failed))
}
