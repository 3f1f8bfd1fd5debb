package main

import (
	"github.com/program-framework/program-backend/pkg/dashboard"
	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
	dashboardDB "github.com/program-framework/program-backend/pkg/db/dashboard"
)

// dbLoaders adapts the dashboard DB service to the session loader interfaces.
type dbLoaders struct {
	dashboardDBConn *dashboardDB.DashboardDBService
}

// LoadSnapshot fetches the full decision input for one student. Program state
// for events the student has never seen is initialized lazily here so the
// decision pass always finds an entry per event.
func (l *dbLoaders) LoadSnapshot(pid string) (dashboard.Snapshot, error) {
	events, err := l.dashboardDBConn.GetAllEvents()
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	pools, err := l.dashboardDBConn.GetAllPools()
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	for _, ev := range events {
		if err := l.dashboardDBConn.InitProgramStateIfMissing(pid, ev.AID); err != nil {
			return dashboard.Snapshot{}, err
		}
	}

	student, err := l.dashboardDBConn.GetStudentByPID(pid)
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	return dashboard.Snapshot{
		Student: student,
		Pools:   pools,
		Events:  events,
	}, nil
}

func (l *dbLoaders) GetBasePrompts(language string) (prompts.Store, error) {
	entries, err := l.dashboardDBConn.GetDefaultPrompts(language)
	if err != nil {
		return nil, err
	}
	store := prompts.FromEntries(entries)
	if language != dashboardTypes.DEFAULT_LANGUAGE {
		fallback, err := l.dashboardDBConn.GetDefaultPrompts(dashboardTypes.DEFAULT_LANGUAGE)
		if err != nil {
			return nil, err
		}
		store.Merge(prompts.FromEntries(fallback))
	}
	return store, nil
}

func (l *dbLoaders) GetEventPrompts(aid string, language string) (prompts.Store, error) {
	return l.promptsForScope(aid, language)
}

// promptsForScope loads the requested language plus English so the resolver's
// fallback paths have something to fall back to.
func (l *dbLoaders) promptsForScope(scope string, language string) (prompts.Store, error) {
	entries, err := l.dashboardDBConn.GetPromptsForScope(scope, language)
	if err != nil {
		return nil, err
	}
	store := prompts.FromEntries(entries)
	if language != dashboardTypes.DEFAULT_LANGUAGE {
		fallback, err := l.dashboardDBConn.GetPromptsForScope(scope, dashboardTypes.DEFAULT_LANGUAGE)
		if err != nil {
			return nil, err
		}
		store.Merge(prompts.FromEntries(fallback))
	}
	return store, nil
}
