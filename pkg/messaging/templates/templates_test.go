package templates

import (
	"strings"
	"testing"

	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
	messagingTypes "github.com/program-framework/program-backend/pkg/messaging/types"
)

func campaignStore() prompts.Store {
	store := prompts.NewStore()
	store.Add("EV24", "invite-subject", "English", "Join us")
	store.Add("EV24", "invite-subject", "Spanish", "Acompáñanos")
	store.Add("EV24", "invite-body", "English", "<p>Dear ||name||, write to ||coord-email|| quoting ||id||.</p>")
	store.Add("EV24", "invite-body", "Spanish", "<p>Estimado ||name||</p>")
	return store
}

func campaignWorkOrder() messagingTypes.WorkOrder {
	return messagingTypes.WorkOrder{
		ID:        "wo-123",
		EventCode: "EV24",
		Languages: []string{"English", "Spanish"},
		Subjects:  map[string]string{},
		Config: messagingTypes.WorkOrderConfig{
			SubjectKey: "invite-subject",
			BodyKey:    "invite-body",
		},
	}
}

func TestCoordinatorEmail(t *testing.T) {
	config := dashboardTypes.EventConfig{
		CoordEmailAmericas: "americas@example.com",
		CoordEmailEurope:   "europe@example.com",
	}

	t.Run("european country", func(t *testing.T) {
		if got := CoordinatorEmail(config, "Germany"); got != "europe@example.com" {
			t.Errorf("unexpected coordinator email: %s", got)
		}
	})

	t.Run("non european country", func(t *testing.T) {
		if got := CoordinatorEmail(config, "Canada"); got != "americas@example.com" {
			t.Errorf("unexpected coordinator email: %s", got)
		}
	})

	t.Run("europe address not configured", func(t *testing.T) {
		cfg := dashboardTypes.EventConfig{CoordEmailAmericas: "americas@example.com"}
		if got := CoordinatorEmail(cfg, "France"); got != "americas@example.com" {
			t.Errorf("unexpected coordinator email: %s", got)
		}
	})
}

func TestResolveCampaignEmail(t *testing.T) {
	store := campaignStore()
	config := dashboardTypes.EventConfig{
		CoordEmailAmericas: "americas@example.com",
		CoordEmailEurope:   "europe@example.com",
	}
	student := dashboardTypes.Student{
		First:   "Ada",
		Last:    "Lovelace",
		Country: "United Kingdom",
		Email:   "ada@example.com",
	}

	t.Run("substitutes recipient placeholders", func(t *testing.T) {
		subject, content, err := ResolveCampaignEmail(store, campaignWorkOrder(), config, student, "English")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject != "Join us" {
			t.Errorf("unexpected subject: %s", subject)
		}
		if !strings.Contains(content, "Dear Ada Lovelace") {
			t.Errorf("name not substituted: %s", content)
		}
		if !strings.Contains(content, "europe@example.com") {
			t.Errorf("coordinator email not substituted: %s", content)
		}
		if !strings.Contains(content, "wo-123") {
			t.Errorf("work order id not substituted: %s", content)
		}
	})

	t.Run("subject override wins", func(t *testing.T) {
		wo := campaignWorkOrder()
		wo.Subjects["English"] = "Special subject"
		subject, _, err := ResolveCampaignEmail(store, wo, config, student, "English")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject != "Special subject" {
			t.Errorf("unexpected subject: %s", subject)
		}
	})

	t.Run("missing language fails", func(t *testing.T) {
		if _, _, err := ResolveCampaignEmail(store, campaignWorkOrder(), config, student, "French"); err == nil {
			t.Error("expected error for missing language")
		}
	})
}

func TestCheckAllLanguagesResolvable(t *testing.T) {
	config := dashboardTypes.EventConfig{CoordEmailAmericas: "americas@example.com"}

	t.Run("all languages present", func(t *testing.T) {
		if err := CheckAllLanguagesResolvable(campaignStore(), campaignWorkOrder(), config); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing translation", func(t *testing.T) {
		wo := campaignWorkOrder()
		wo.Languages = append(wo.Languages, "French")
		if err := CheckAllLanguagesResolvable(campaignStore(), wo, config); err == nil {
			t.Error("expected error for unresolvable language")
		}
	})

	t.Run("no languages", func(t *testing.T) {
		wo := campaignWorkOrder()
		wo.Languages = nil
		if err := CheckAllLanguagesResolvable(campaignStore(), wo, config); err == nil {
			t.Error("expected error for empty language list")
		}
	})
}
