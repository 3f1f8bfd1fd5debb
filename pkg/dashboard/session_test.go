package dashboard

import (
	"errors"
	"testing"

	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

type fakeSnapshotLoader struct {
	snapshot Snapshot
	err      error
	calls    int
}

func (l *fakeSnapshotLoader) LoadSnapshot(pid string) (Snapshot, error) {
	l.calls++
	return l.snapshot, l.err
}

type fakePromptLoader struct {
	base        prompts.Store
	eventStores map[string]prompts.Store
	eventCalls  []string
}

func (l *fakePromptLoader) GetBasePrompts(language string) (prompts.Store, error) {
	store := prompts.NewStore()
	store.Merge(l.base)
	return store, nil
}

func (l *fakePromptLoader) GetEventPrompts(aid string, language string) (prompts.Store, error) {
	l.eventCalls = append(l.eventCalls, aid)
	store, ok := l.eventStores[aid]
	if !ok {
		return prompts.NewStore(), nil
	}
	return store, nil
}

func sessionFixture() (*fakeSnapshotLoader, *fakePromptLoader) {
	pools := []dashboardTypes.Pool{
		{Name: "open", Attributes: []dashboardTypes.PoolAttribute{{Type: "true"}}},
		{Name: "closed", Attributes: []dashboardTypes.PoolAttribute{{Type: "practice", Field: "never"}}},
	}
	events := []dashboardTypes.EventDefinition{
		{
			AID:       "visible",
			Config:    dashboardTypes.EventConfig{Pool: "open"},
			SubEvents: map[string]dashboardTypes.SubEventDefinition{"weekend1": {Date: "2026-04-10", EventOnDeck: true}},
		},
		{
			AID:       "hidden",
			Config:    dashboardTypes.EventConfig{Pool: "closed"},
			SubEvents: map[string]dashboardTypes.SubEventDefinition{"weekend1": {Date: "2026-05-10", EventOnDeck: true}},
		},
	}
	snapshots := &fakeSnapshotLoader{snapshot: Snapshot{
		Student: dashboardTypes.Student{PID: "p1", Email: "a@b.com"},
		Pools:   pools,
		Events:  events,
	}}

	eventStore := prompts.NewStore()
	eventStore.Add("visible", "title", "English", "Visible Event")
	promptLoader := &fakePromptLoader{
		base:        prompts.NewStore(),
		eventStores: map[string]prompts.Store{"visible": eventStore},
	}
	return snapshots, promptLoader
}

func TestSessionRefresh(t *testing.T) {
	snapshots, promptLoader := sessionFixture()
	session := NewSession(snapshots, promptLoader, "p1", "English")

	if err := session.Refresh(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	t.Run("content built from snapshot", func(t *testing.T) {
		content := session.Content()
		if len(content) != 1 {
			t.Fatalf("unexpected content length: %d", len(content))
		}
		if content[0].AID != "visible" {
			t.Errorf("unexpected aid: %s", content[0].AID)
		}
		if content[0].Title != "Visible Event" {
			t.Errorf("unexpected title: %s", content[0].Title)
		}
	})

	t.Run("event prompts loaded only for eligible events", func(t *testing.T) {
		for _, aid := range promptLoader.eventCalls {
			if aid == "hidden" {
				t.Error("tier-2 prompts fetched for an ineligible event")
			}
		}
		if len(promptLoader.eventCalls) != 1 {
			t.Errorf("unexpected event prompt fetches: %v", promptLoader.eventCalls)
		}
	})
}

func TestSessionRefreshError(t *testing.T) {
	snapshots, promptLoader := sessionFixture()
	snapshots.err = errors.New("store down")
	session := NewSession(snapshots, promptLoader, "p1", "English")
	if err := session.Refresh(); err == nil {
		t.Error("expected error from failing loader")
	}
}

func TestSessionStaleRebuildDiscarded(t *testing.T) {
	snapshots, promptLoader := sessionFixture()
	session := NewSession(snapshots, promptLoader, "p1", "English")
	if err := session.Refresh(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	// a pass from an older generation must not be committed
	staleSnapshot := snapshots.snapshot
	staleSnapshot.Student.Email = "stale@b.com"
	err := session.rebuild(0, staleSnapshot, "English")
	if !errors.Is(err, ErrSupersededRefresh) {
		t.Errorf("expected ErrSupersededRefresh, got %v", err)
	}
	if session.Student().Email != "a@b.com" {
		t.Error("stale pass overwrote session state")
	}
}

func TestSessionSetLanguage(t *testing.T) {
	snapshots, promptLoader := sessionFixture()
	eventStore := promptLoader.eventStores["visible"]
	eventStore.Add("visible", "title", "Spanish", "Evento Visible")

	session := NewSession(snapshots, promptLoader, "p1", "English")
	if err := session.Refresh(); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if err := session.SetLanguage("Spanish"); err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if session.Language() != "Spanish" {
		t.Errorf("unexpected language: %s", session.Language())
	}
	content := session.Content()
	if content[0].Title != "Evento Visible" {
		t.Errorf("unexpected title after language switch: %s", content[0].Title)
	}
	// no snapshot re-fetch for a pure language switch
	if snapshots.calls != 1 {
		t.Errorf("unexpected snapshot loads: %d", snapshots.calls)
	}
}

func TestManager(t *testing.T) {
	snapshots, promptLoader := sessionFixture()
	manager := NewManager(snapshots, promptLoader)

	first, err := manager.GetOrCreate("p1", "English")
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	second, err := manager.GetOrCreate("p1", "English")
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if first != second {
		t.Error("expected the same session for the same student")
	}

	t.Run("invalidate refreshes known sessions", func(t *testing.T) {
		before := snapshots.calls
		if err := manager.Invalidate("p1"); err != nil {
			t.Errorf("unexpected error: %s", err.Error())
		}
		if snapshots.calls != before+1 {
			t.Error("expected a snapshot re-fetch")
		}
	})

	t.Run("invalidate ignores unknown students", func(t *testing.T) {
		if err := manager.Invalidate("nosuch"); err != nil {
			t.Errorf("unexpected error: %s", err.Error())
		}
	})

	t.Run("invalidate all refreshes every session", func(t *testing.T) {
		before := snapshots.calls
		if failed := manager.InvalidateAll(); failed != 0 {
			t.Errorf("expected no failed refreshes, got %d", failed)
		}
		if snapshots.calls != before+1 {
			t.Error("expected a snapshot re-fetch")
		}
	})

	t.Run("invalidate all counts failures", func(t *testing.T) {
		snapshots.err = errors.New("db down")
		defer func() { snapshots.err = nil }()
		if failed := manager.InvalidateAll(); failed != 1 {
			t.Errorf("expected 1 failed refresh, got %d", failed)
		}
	})
}
