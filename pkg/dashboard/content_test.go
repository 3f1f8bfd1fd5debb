package dashboard

import (
	"testing"

	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func openPools() []dashboardTypes.Pool {
	return []dashboardTypes.Pool{
		{Name: "open", Attributes: []dashboardTypes.PoolAttribute{{Type: "true"}}},
		{Name: "closed", Attributes: []dashboardTypes.PoolAttribute{{Type: "practice", Field: "never"}}},
	}
}

func testResolver() *prompts.Resolver {
	store := prompts.NewStore()
	store.Add("ev2024", "title", "English", "Spring Retreat")
	store.Add("descriptions", "ev2024", "English", "<p>desc</p>")
	return prompts.NewResolver(store, "English", "default", "a@b.com")
}

func singleSubEventFixture(cfg dashboardTypes.EventConfig, se dashboardTypes.SubEventDefinition) []dashboardTypes.EventDefinition {
	return []dashboardTypes.EventDefinition{{
		AID:       "ev2024",
		Config:    cfg,
		SubEvents: map[string]dashboardTypes.SubEventDefinition{"weekend1": se},
	}}
}

func TestBuildProgramContentClassification(t *testing.T) {
	pools := openPools()
	resolver := testResolver()

	t.Run("upcoming event without registration", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open"},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true, RegLinkAvailable: true},
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if len(rows) != 1 {
			t.Fatalf("unexpected row count: %d", len(rows))
		}
		if rows[0].State != CONTENT_STATE_UPCOMING_UNREGISTERED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
		if !rows[0].RegLinkAvailable {
			t.Error("expected registration link content")
		}
		if rows[0].Title != "Spring Retreat" {
			t.Errorf("unexpected title: %s", rows[0].Title)
		}
	})

	t.Run("registered and live wins over every gate", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", OfferingPeriodClosed: true, NeedAcceptance: true},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true},
		)
		student := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {OfferingHistory: map[string]dashboardTypes.OfferingRecord{
				"weekend1": {OfferingSKU: "sku-1"},
			}},
		}}
		rows := BuildProgramContent(student, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_UPCOMING_REGISTERED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})

	t.Run("withdrawn registration does not count", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", OfferingPeriodClosed: true},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true},
		)
		student := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {
				Withdrawn: true,
				OfferingHistory: map[string]dashboardTypes.OfferingRecord{
					"weekend1": {OfferingSKU: "sku-1"},
				},
			},
		}}
		rows := BuildProgramContent(student, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_OFFERING_CLOSED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})

	t.Run("application period closed", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", ApplicationPeriodClosed: true, NeedAcceptance: true},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true},
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_APPLICATION_CLOSED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})

	t.Run("acceptance branch", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", NeedAcceptance: true},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true},
		)

		accepted := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {Join: true, Accepted: true},
		}}
		rows := BuildProgramContent(accepted, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_UPCOMING_REGISTERED {
			t.Errorf("unexpected state for accepted student: %s", rows[0].State)
		}

		joined := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {Join: true},
		}}
		rows = BuildProgramContent(joined, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_AWAITING_ACCEPTANCE {
			t.Errorf("unexpected state for joined student: %s", rows[0].State)
		}

		rows = BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_UPCOMING_UNREGISTERED {
			t.Errorf("unexpected state for new student: %s", rows[0].State)
		}
	})

	t.Run("incomplete on-deck event is never media-locked", func(t *testing.T) {
		// eventComplete=false, no offering history, no acceptance needed,
		// registration link available
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", OfferingPresentation: true},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true, EventComplete: false, RegLinkAvailable: true},
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_UPCOMING_UNREGISTERED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
		if !rows[0].RegLinkAvailable {
			t.Error("expected registration link content")
		}
	})

	t.Run("off-deck sub-events are skipped", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open"},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: false},
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if len(rows) != 0 {
			t.Errorf("unexpected row count: %d", len(rows))
		}
	})

	t.Run("ineligible events are excluded", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "closed"},
			dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true},
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if len(rows) != 0 {
			t.Errorf("unexpected row count: %d", len(rows))
		}
	})
}

func TestBuildProgramContentMediaBranch(t *testing.T) {
	pools := openPools()
	resolver := testResolver()

	completedSE := func(se dashboardTypes.SubEventDefinition) dashboardTypes.SubEventDefinition {
		se.EventOnDeck = true
		se.EventComplete = true
		se.Date = "2024-04-10"
		return se
	}

	t.Run("attendees only gate", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", MediaAttendeesOnly: true},
			completedSE(dashboardTypes.SubEventDefinition{MediaLink: "https://media.example.com"}),
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_NO_MEDIA {
			t.Errorf("unexpected state: %s", rows[0].State)
		}

		attendee := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {Attended: true},
		}}
		rows = BuildProgramContent(attendee, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_MEDIA_AVAILABLE || rows[0].MediaKind != MEDIA_KIND_LINK {
			t.Errorf("unexpected state/kind: %s/%s", rows[0].State, rows[0].MediaKind)
		}
	})

	t.Run("eligible only media access gate", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", EligibleOnlyMediaAccess: true},
			completedSE(dashboardTypes.SubEventDefinition{MediaLink: "https://media.example.com"}),
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_NO_MEDIA {
			t.Errorf("unexpected state: %s", rows[0].State)
		}

		eligible := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2024": {Eligible: true},
		}}
		rows = BuildProgramContent(eligible, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_MEDIA_AVAILABLE || rows[0].MediaKind != MEDIA_KIND_LINK {
			t.Errorf("unexpected state/kind: %s/%s", rows[0].State, rows[0].MediaKind)
		}
	})

	t.Run("offering required but not completed", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", OfferingPresentation: true},
			completedSE(dashboardTypes.SubEventDefinition{MediaLink: "https://media.example.com"}),
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_MEDIA_LOCKED {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})

	t.Run("companion offering unlocks media", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open", OfferingPresentation: true},
			completedSE(dashboardTypes.SubEventDefinition{
				MediaLink:                 "https://media.example.com",
				OfferingCompanionAID:      "ev2023",
				OfferingCompanionSubEvent: "retreat",
			}),
		)
		student := dashboardTypes.Student{Programs: map[string]dashboardTypes.ProgramState{
			"ev2023": {OfferingHistory: map[string]dashboardTypes.OfferingRecord{
				"retreat": {OfferingSKU: "sku-9"},
			}},
		}}
		rows := BuildProgramContent(student, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_MEDIA_AVAILABLE {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})

	t.Run("media kind precedence pdf over video over link", func(t *testing.T) {
		se := completedSE(dashboardTypes.SubEventDefinition{
			EmbeddedPDFList:   []dashboardTypes.MediaItem{{Title: "notes", URL: "u"}},
			EmbeddedVideoList: []dashboardTypes.MediaItem{{Title: "talk", URL: "u"}},
			MediaLink:         "https://media.example.com",
		})
		events := singleSubEventFixture(dashboardTypes.EventConfig{Pool: "open"}, se)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].MediaKind != MEDIA_KIND_PDF {
			t.Errorf("unexpected media kind: %s", rows[0].MediaKind)
		}

		se.EmbeddedPDFList = nil
		events = singleSubEventFixture(dashboardTypes.EventConfig{Pool: "open"}, se)
		rows = BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].MediaKind != MEDIA_KIND_VIDEO {
			t.Errorf("unexpected media kind: %s", rows[0].MediaKind)
		}
	})

	t.Run("completed event without any media", func(t *testing.T) {
		events := singleSubEventFixture(
			dashboardTypes.EventConfig{Pool: "open"},
			completedSE(dashboardTypes.SubEventDefinition{}),
		)
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if rows[0].State != CONTENT_STATE_NO_MEDIA {
			t.Errorf("unexpected state: %s", rows[0].State)
		}
	})
}

func TestSortContentRows(t *testing.T) {
	rows := []ProgramContent{
		{AID: "a", Date: "2024-01-01"},
		{AID: "b", Date: "2026-06-15"},
		{AID: "c", Date: "2025-03-02"},
		{AID: "d", Date: "2025-03-02"},
	}
	SortContentRows(rows)

	wantOrder := []string{"b", "c", "d", "a"}
	for i, want := range wantOrder {
		if rows[i].AID != want {
			t.Errorf("unexpected order at %d: got %s, want %s", i, rows[i].AID, want)
		}
	}
}

func TestBuildProgramContentTieOrderIsDeterministic(t *testing.T) {
	pools := openPools()
	resolver := testResolver()

	subEvents := map[string]dashboardTypes.SubEventDefinition{}
	for _, name := range []string{"f", "a", "d", "b", "e", "c"} {
		subEvents[name] = dashboardTypes.SubEventDefinition{Date: "2026-04-10", EventOnDeck: true}
	}
	events := []dashboardTypes.EventDefinition{{
		AID:       "ev2024",
		Config:    dashboardTypes.EventConfig{Pool: "open"},
		SubEvents: subEvents,
	}}

	wantOrder := []string{"a", "b", "c", "d", "e", "f"}
	for pass := 0; pass < 5; pass++ {
		rows := BuildProgramContent(dashboardTypes.Student{}, events, pools, resolver)
		if len(rows) != len(wantOrder) {
			t.Fatalf("unexpected row count: %d", len(rows))
		}
		for i, want := range wantOrder {
			if rows[i].SubEvent != want {
				t.Fatalf("pass %d: unexpected order at %d: got %s, want %s", pass, i, rows[i].SubEvent, want)
			}
		}
	}
}

func TestCollectShowcaseVideos(t *testing.T) {
	events := []dashboardTypes.EventDefinition{
		{
			AID:               "showcase-only",
			ShowcaseVideoList: []dashboardTypes.MediaItem{{Title: "intro", URL: "u1"}},
		},
		{
			AID:               "regular",
			SubEvents:         map[string]dashboardTypes.SubEventDefinition{"weekend1": {}},
			ShowcaseVideoList: []dashboardTypes.MediaItem{{Title: "skipped", URL: "u2"}},
		},
	}
	videos := CollectShowcaseVideos(events)
	if len(videos) != 1 || videos[0].Title != "intro" {
		t.Errorf("unexpected showcase list: %v", videos)
	}
}
