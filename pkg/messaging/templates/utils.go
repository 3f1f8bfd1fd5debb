package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

// Placeholders substituted per recipient when a campaign email is rendered.
// Title, deadline and email placeholders are already handled by the prompt
// resolver; these three depend on the individual student or work order.
const (
	PLACEHOLDER_NAME        = "||name||"
	PLACEHOLDER_COORD_EMAIL = "||coord-email||"
	PLACEHOLDER_ID          = "||id||"
)

var europeanCountries = map[string]bool{
	"Austria": true, "Belgium": true, "Bulgaria": true, "Croatia": true,
	"Czech Republic": true, "Denmark": true, "Estonia": true, "Finland": true,
	"France": true, "Germany": true, "Greece": true, "Hungary": true,
	"Ireland": true, "Italy": true, "Latvia": true, "Lithuania": true,
	"Luxembourg": true, "Netherlands": true, "Norway": true, "Poland": true,
	"Portugal": true, "Romania": true, "Slovakia": true, "Slovenia": true,
	"Spain": true, "Sweden": true, "Switzerland": true, "United Kingdom": true,
}

// CoordinatorEmail picks the regional coordinator address for a student.
func CoordinatorEmail(config dashboardTypes.EventConfig, country string) string {
	if europeanCountries[country] && config.CoordEmailEurope != "" {
		return config.CoordEmailEurope
	}
	return config.CoordEmailAmericas
}

// ResolveCampaignEmail renders subject and body of a work-order email for one
// recipient in the given language. The subject comes from the work order's
// per-language override when present, otherwise from the prompt store. The
// body goes through the HTML resolver and then gets the recipient-specific
// placeholders substituted.
func ResolveCampaignEmail(
	store prompts.Store,
	workOrder messagingTypes.WorkOrder,
	eventConfig dashboardTypes.EventConfig,
	student dashboardTypes.Student,
	language string,
) (subject string, content string, err error) {
	resolver := prompts.NewResolver(store, language, workOrder.EventCode, student.Email)

	subject = workOrder.Subjects[language]
	if subject == "" {
		subject = resolver.Lookup(workOrder.Config.SubjectKey)
	}
	if prompts.IsUnknownSentinel(subject) {
		return "", "", fmt.Errorf("no subject for key %s in %s", workOrder.Config.SubjectKey, language)
	}

	body := resolver.LookupHTML(workOrder.Config.BodyKey)
	if prompts.IsUnknownSentinel(body.HTML) {
		return "", "", fmt.Errorf("no body for key %s in %s", workOrder.Config.BodyKey, language)
	}

	content = body.HTML
	content = strings.ReplaceAll(content, PLACEHOLDER_NAME, strings.TrimSpace(student.First+" "+student.Last))
	content = strings.ReplaceAll(content, PLACEHOLDER_COORD_EMAIL, CoordinatorEmail(eventConfig, student.Country))
	content = strings.ReplaceAll(content, PLACEHOLDER_ID, workOrder.ID)
	return subject, content, nil
}

// CheckAllLanguagesResolvable verifies that subject and body resolve without
// a miss sentinel for every language the work order targets. Used before a
// work order moves past its prepare step.
func CheckAllLanguagesResolvable(
	store prompts.Store,
	workOrder messagingTypes.WorkOrder,
	eventConfig dashboardTypes.EventConfig,
) error {
	if len(workOrder.Languages) == 0 {
		return errors.New("work order has no target languages")
	}
	probe := dashboardTypes.Student{First: "Test", Last: "Recipient"}
	for _, lang := range workOrder.Languages {
		if _, _, err := ResolveCampaignEmail(store, workOrder, eventConfig, probe, lang); err != nil {
			return err
		}
	}
	return nil
}
