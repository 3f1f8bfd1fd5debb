package main

import (
	"fmt"
	"log/slog"

	"github.com/program-framework/program-backend/pkg/dashboard/eligibility"
	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
	workorderDB "github.com/program-framework/program-backend/pkg/db/workorder"
	emailsending "github.com/program-framework/program-backend/pkg/messaging/email-sending"
	"github.com/program-framework/program-backend/pkg/messaging/templates"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
	"github.com/program-framework/program-backend/pkg/utils"
)

var workOrderStepOrder = []string{
	messagingTypes.WORK_ORDER_STEP_COUNT,
	messagingTypes.WORK_ORDER_STEP_PREPARE,
	messagingTypes.WORK_ORDER_STEP_TEST,
	messagingTypes.WORK_ORDER_STEP_SEND,
}

// processWorkOrder claims one work order and runs its active step. One step
// per job run; the next run picks up the advanced cursor.
func processWorkOrder(wo messagingTypes.WorkOrder) {
	err := workOrderDBService.LockWorkOrder(wo.ID, conf.WorkerID)
	if err != nil {
		if err == workorderDB.ErrWorkOrderLocked {
			slog.Debug("work order already locked", slog.String("workOrderID", wo.ID))
			return
		}
		slog.Error("Failed to lock work order", slog.String("workOrderID", wo.ID), slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := workOrderDBService.UnlockWorkOrder(wo.ID); err != nil {
			slog.Error("Failed to unlock work order", slog.String("workOrderID", wo.ID), slog.String("error", err.Error()))
		}
	}()

	activeStep, ok := wo.ActiveStep()
	if !ok || activeStep.Status != messagingTypes.WORK_ORDER_STEP_STATUS_READY {
		return
	}

	if err := workOrderDBService.UpdateWorkOrderStep(wo.ID, activeStep.Name, messagingTypes.WORK_ORDER_STEP_STATUS_WORKING, ""); err != nil {
		slog.Error("Failed to mark work order step as working", slog.String("workOrderID", wo.ID), slog.String("error", err.Error()))
		return
	}

	var message string
	switch activeStep.Name {
	case messagingTypes.WORK_ORDER_STEP_COUNT:
		message, err = runCountStep(wo)
	case messagingTypes.WORK_ORDER_STEP_PREPARE:
		message, err = runPrepareStep(wo)
	case messagingTypes.WORK_ORDER_STEP_TEST:
		message, err = runTestStep(wo)
	case messagingTypes.WORK_ORDER_STEP_SEND:
		message, err = runSendStep(wo)
	default:
		err = fmt.Errorf("unknown step %s", activeStep.Name)
	}

	if err != nil {
		slog.Error("Work order step failed", slog.String("workOrderID", wo.ID), slog.String("step", activeStep.Name), slog.String("error", err.Error()))
		if errU := workOrderDBService.UpdateWorkOrderStep(wo.ID, activeStep.Name, messagingTypes.WORK_ORDER_STEP_STATUS_ERROR, err.Error()); errU != nil {
			slog.Error("Failed to record step error", slog.String("workOrderID", wo.ID), slog.String("error", errU.Error()))
		}
		return
	}

	if err := workOrderDBService.UpdateWorkOrderStep(wo.ID, activeStep.Name, messagingTypes.WORK_ORDER_STEP_STATUS_COMPLETE, message); err != nil {
		slog.Error("Failed to mark step as complete", slog.String("workOrderID", wo.ID), slog.String("error", err.Error()))
		return
	}

	if next := nextStepName(activeStep.Name); next != "" {
		if err := workOrderDBService.AdvanceWorkOrderStage(wo.ID, activeStep.Name, next); err != nil {
			slog.Error("Failed to advance work order stage", slog.String("workOrderID", wo.ID), slog.String("error", err.Error()))
			return
		}
	}

	slog.Info("Work order step completed", slog.String("workOrderID", wo.ID), slog.String("step", activeStep.Name), slog.String("message", message))
}

func nextStepName(current string) string {
	for i, name := range workOrderStepOrder {
		if name == current && i+1 < len(workOrderStepOrder) {
			return workOrderStepOrder[i+1]
		}
	}
	return ""
}

// visitRecipients walks all students and calls visit for everyone the work
// order's target pool admits.
func visitRecipients(wo messagingTypes.WorkOrder, visit func(student dashboardTypes.Student) error) error {
	pools, err := dashboardDBService.GetAllPools()
	if err != nil {
		return err
	}

	return dashboardDBService.GetAllStudents(func(student dashboardTypes.Student) error {
		evalCtx := eligibility.EvalContext{
			Student:        student,
			CurrentEventID: wo.EventCode,
			Pools:          pools,
		}
		if !eligibility.IsEligible(wo.Config.TargetPool, evalCtx) {
			return nil
		}
		if wo.Account != "" {
			if pref, ok := student.EmailPreferences[wo.Account]; ok && !pref {
				return nil
			}
		}
		return visit(student)
	})
}

// buildCampaignStore loads all prompt entries the work order can need: its
// event scope in every target language plus English for fallbacks.
func buildCampaignStore(wo messagingTypes.WorkOrder) (prompts.Store, error) {
	store := prompts.NewStore()
	languages := append([]string{}, wo.Languages...)
	if !utils.ContainsString(languages, dashboardTypes.DEFAULT_LANGUAGE) {
		languages = append(languages, dashboardTypes.DEFAULT_LANGUAGE)
	}
	for _, lang := range languages {
		entries, err := dashboardDBService.GetPromptsForScope(wo.EventCode, lang)
		if err != nil {
			return nil, err
		}
		store.Merge(prompts.FromEntries(entries))
	}
	return store, nil
}

func runCountStep(wo messagingTypes.WorkOrder) (string, error) {
	count := 0
	err := visitRecipients(wo, func(student dashboardTypes.Student) error {
		count++
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d recipients match", count), nil
}

func runPrepareStep(wo messagingTypes.WorkOrder) (string, error) {
	event, err := dashboardDBService.GetEventByAID(wo.EventCode)
	if err != nil {
		return "", err
	}

	store, err := buildCampaignStore(wo)
	if err != nil {
		return "", err
	}

	if err := templates.CheckAllLanguagesResolvable(store, wo, event.Config); err != nil {
		return "", err
	}
	return fmt.Sprintf("content resolvable in %d languages", len(wo.Languages)), nil
}

func runTestStep(wo messagingTypes.WorkOrder) (string, error) {
	if len(wo.Config.TestRecipients) == 0 {
		return "", fmt.Errorf("no test recipients configured")
	}

	event, err := dashboardDBService.GetEventByAID(wo.EventCode)
	if err != nil {
		return "", err
	}

	store, err := buildCampaignStore(wo)
	if err != nil {
		return "", err
	}

	sent := 0
	for _, lang := range wo.Languages {
		probe := dashboardTypes.Student{
			First: "Test",
			Last:  "Recipient",
			Email: wo.Config.TestRecipients[0],
		}
		subject, content, err := templates.ResolveCampaignEmail(store, wo, event.Config, probe, lang)
		if err != nil {
			return "", err
		}

		outgoing := messagingTypes.OutgoingEmail{
			WorkOrderID: wo.ID,
			To:          wo.Config.TestRecipients,
			Subject:     fmt.Sprintf("[TEST %s] %s", lang, subject),
			Content:     content,
			HighPrio:    true,
		}
		if err := emailsending.SendOutgoingEmail(&outgoing); err != nil {
			return "", err
		}
		sent++
	}
	return fmt.Sprintf("%d test emails sent", sent), nil
}

func runSendStep(wo messagingTypes.WorkOrder) (string, error) {
	event, err := dashboardDBService.GetEventByAID(wo.EventCode)
	if err != nil {
		return "", err
	}

	store, err := buildCampaignStore(wo)
	if err != nil {
		return "", err
	}

	fallbackLang := dashboardTypes.DEFAULT_LANGUAGE
	if len(wo.Languages) > 0 {
		fallbackLang = wo.Languages[0]
	}

	counters := InitMessageCounter()
	err = visitRecipients(wo, func(student dashboardTypes.Student) error {
		if student.Email == "" {
			return nil
		}

		lang := utils.PickLanguage(wo.Languages, student.WrittenLangPref, fallbackLang)
		subject, content, err := templates.ResolveCampaignEmail(store, wo, event.Config, student, lang)
		if err != nil {
			counters.IncreaseCounter(false)
			slog.Error("Failed to resolve campaign email", slog.String("workOrderID", wo.ID), slog.String("pid", student.PID), slog.String("error", err.Error()))
			return nil
		}

		err = emailsending.QueueCampaignEmail(
			wo.ID,
			[]string{student.Email},
			subject,
			content,
			nil,
			wo.Config.HighPrio,
		)
		if err != nil {
			counters.IncreaseCounter(false)
			return nil
		}
		counters.IncreaseCounter(true)
		return nil
	})
	if err != nil {
		return "", err
	}

	counters.Stop()
	if counters.Failed > 0 {
		return "", fmt.Errorf("%d emails queued, %d failed", counters.Success, counters.Failed)
	}
	return fmt.Sprintf("%d emails queued", counters.Success), nil
}
