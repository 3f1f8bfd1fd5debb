package dashboard

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/program-framework/program-backend/pkg/dashboard/eligibility"
	"github.com/program-framework/program-backend/pkg/dashboard/prompts"
	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

// ErrSupersededRefresh is returned when a refresh or language switch finished
// after a newer one had already started; its result was discarded.
var ErrSupersededRefresh = errors.New("refresh superseded by a newer one")

// Snapshot is the immutable per-session view of the store: fetched once,
// complete (all result pages concatenated), then evaluated without further I/O.
type Snapshot struct {
	Student dashboardTypes.Student
	Pools   []dashboardTypes.Pool
	Events  []dashboardTypes.EventDefinition
}

// SnapshotLoader fetches a complete snapshot for a student. Implementations
// must run store pagination to completion before returning; the decision pass
// never runs on partial data.
type SnapshotLoader interface {
	LoadSnapshot(pid string) (Snapshot, error)
}

// PromptLoader fetches prompt sets. Base prompts (default + descriptions
// scopes) are always needed; event prompt sets are loaded lazily, only for
// events the student turned out to be eligible for.
type PromptLoader interface {
	GetBasePrompts(language string) (prompts.Store, error)
	GetEventPrompts(aid string, language string) (prompts.Store, error)
}

// Session owns one student's dashboard state: a store snapshot, the current
// language cursor and the classified content built from them. A monotonic
// generation counter guards against a stale pass overwriting a newer one
// (e.g. rapid language switches).
type Session struct {
	ID  string
	PID string

	snapshots SnapshotLoader
	prompts   PromptLoader

	mu         sync.Mutex
	generation uint64
	language   string
	snapshot   Snapshot
	content    []ProgramContent
	showcase   []dashboardTypes.MediaItem
}

func NewSession(snapshots SnapshotLoader, promptLoader PromptLoader, pid string, language string) *Session {
	if language == "" {
		language = dashboardTypes.DEFAULT_LANGUAGE
	}
	return &Session{
		ID:        uuid.NewString(),
		PID:       pid,
		snapshots: snapshots,
		prompts:   promptLoader,
		language:  language,
	}
}

// Refresh re-fetches the student snapshot and re-runs the full decision pass.
// This is a complete recompute, not an incremental update.
func (s *Session) Refresh() error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	language := s.language
	s.mu.Unlock()

	snapshot, err := s.snapshots.LoadSnapshot(s.PID)
	if err != nil {
		return err
	}
	return s.rebuild(gen, snapshot, language)
}

// SetLanguage moves the language cursor and re-resolves everything against
// the existing snapshot.
func (s *Session) SetLanguage(language string) error {
	if language == "" {
		language = dashboardTypes.DEFAULT_LANGUAGE
	}
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.language = language
	snapshot := s.snapshot
	s.mu.Unlock()

	return s.rebuild(gen, snapshot, language)
}

// rebuild runs the decision pass for one generation and commits the result
// only if no newer pass has started in the meantime.
func (s *Session) rebuild(gen uint64, snapshot Snapshot, language string) error {
	store, err := s.prompts.GetBasePrompts(language)
	if err != nil {
		return err
	}

	// tier-2 prompt sets only for eligible events
	for _, ev := range snapshot.Events {
		if len(ev.SubEvents) == 0 {
			continue
		}
		evalCtx := eligibility.EvalContext{
			Student:        snapshot.Student,
			CurrentEventID: ev.AID,
			Pools:          snapshot.Pools,
		}
		if !eligibility.IsEligible(ev.Config.Pool, evalCtx) {
			continue
		}
		eventStore, err := s.prompts.GetEventPrompts(ev.AID, language)
		if err != nil {
			return err
		}
		store.Merge(eventStore)
	}

	resolver := prompts.NewResolver(store, language, dashboardTypes.PROMPT_SCOPE_DEFAULT, snapshot.Student.Email)
	content := BuildProgramContent(snapshot.Student, snapshot.Events, snapshot.Pools, resolver)
	showcase := CollectShowcaseVideos(snapshot.Events)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		slog.Debug("discarding superseded decision pass", slog.String("sessionID", s.ID), slog.String("pid", s.PID))
		return ErrSupersededRefresh
	}
	s.snapshot = snapshot
	s.content = content
	s.showcase = showcase
	return nil
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) Content() []ProgramContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *Session) Showcase() []dashboardTypes.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showcase
}

func (s *Session) Student() dashboardTypes.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Student
}

// Manager keeps one session per student for the lifetime of the process.
type Manager struct {
	snapshots SnapshotLoader
	prompts   PromptLoader

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(snapshots SnapshotLoader, promptLoader PromptLoader) *Manager {
	return &Manager{
		snapshots: snapshots,
		prompts:   promptLoader,
		sessions:  map[string]*Session{},
	}
}

// GetOrCreate returns the student's session, creating and populating it on
// first use.
func (m *Manager) GetOrCreate(pid string, language string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[pid]
	if !ok {
		session = NewSession(m.snapshots, m.prompts, pid, language)
		m.sessions[pid] = session
	}
	m.mu.Unlock()

	if !ok {
		if err := session.Refresh(); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Invalidate re-runs the decision pass for a student after an external update
// notification. Unknown students are ignored.
func (m *Manager) Invalidate(pid string) error {
	m.mu.Lock()
	session, ok := m.sessions[pid]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return session.Refresh()
}

// InvalidateAll re-runs the decision pass for every live session, e.g. after
// pools, events or prompts changed. Returns the number of sessions that
// failed to refresh.
func (m *Manager) InvalidateAll() int {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.Unlock()

	failed := 0
	for _, session := range sessions {
		if err := session.Refresh(); err != nil {
			failed++
		}
	}
	return failed
}
