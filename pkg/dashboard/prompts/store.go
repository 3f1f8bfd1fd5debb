package prompts

import (
	"log/slog"
	"strings"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

// Store is the canonical prompt lookup structure: scope -> key -> language -> text.
// The flat list-of-entries storage encoding is normalized into this form at
// the ingestion boundary; the resolver only ever sees a Store.
type Store map[string]map[string]map[string]string

func NewStore() Store {
	return Store{}
}

// FromEntries normalizes flat prompt entries ("<scope>-<key>" packed IDs)
// into a canonical store. Scopes contain no hyphen, so the split happens at
// the first one. Malformed entries are skipped with a diagnostic.
func FromEntries(entries []dashboardTypes.PromptEntry) Store {
	store := NewStore()
	for _, entry := range entries {
		scope, key, ok := strings.Cut(entry.Prompt, "-")
		if !ok || scope == "" || key == "" {
			slog.Warn("malformed prompt id", slog.String("prompt", entry.Prompt))
			continue
		}
		store.Add(scope, key, entry.Language, entry.Text)
	}
	return store
}

func (s Store) Add(scope string, key string, language string, text string) {
	keys, ok := s[scope]
	if !ok {
		keys = map[string]map[string]string{}
		s[scope] = keys
	}
	languages, ok := keys[key]
	if !ok {
		languages = map[string]string{}
		keys[key] = languages
	}
	languages[language] = text
}

// Merge copies all entries of other into s. Used to layer the lazily loaded
// per-event prompt sets on top of the always-loaded base set.
func (s Store) Merge(other Store) {
	for scope, keys := range other {
		for key, languages := range keys {
			for language, text := range languages {
				s.Add(scope, key, language, text)
			}
		}
	}
}

func (s Store) get(scope string, key string, language string) (text string, found bool) {
	keys, ok := s[scope]
	if !ok {
		return "", false
	}
	languages, ok := keys[key]
	if !ok {
		return "", false
	}
	text, found = languages[language]
	return text, found
}
