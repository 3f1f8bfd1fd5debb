package prompts

import (
	"testing"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

func TestFromEntries(t *testing.T) {
	entries := []dashboardTypes.PromptEntry{
		{Prompt: "dashboard-welcome", Language: "English", Text: "Hi"},
		{Prompt: "dashboard-welcome", Language: "Spanish", Text: "Hola"},
		{Prompt: "dashboard-reg-link", Language: "English", Text: "Register"},
		{Prompt: "broken", Language: "English", Text: "no key part"},
	}
	store := FromEntries(entries)

	t.Run("scope and key split at first hyphen", func(t *testing.T) {
		if text, _ := store.get("dashboard", "welcome", "Spanish"); text != "Hola" {
			t.Errorf("unexpected text: %s", text)
		}
		// keys may carry hyphens of their own
		if text, _ := store.get("dashboard", "reg-link", "English"); text != "Register" {
			t.Errorf("unexpected text: %s", text)
		}
	})

	t.Run("malformed ids are skipped", func(t *testing.T) {
		if _, found := store.get("broken", "", "English"); found {
			t.Error("expected malformed entry to be dropped")
		}
	})
}

func TestStoreMerge(t *testing.T) {
	base := NewStore()
	base.Add("default", "title", "English", "Programs")
	tier2 := NewStore()
	tier2.Add("ev2024", "title", "English", "Spring Retreat")

	base.Merge(tier2)
	if text, _ := base.get("ev2024", "title", "English"); text != "Spring Retreat" {
		t.Errorf("unexpected text after merge: %s", text)
	}
	if text, _ := base.get("default", "title", "English"); text != "Programs" {
		t.Errorf("merge must not drop existing entries: %s", text)
	}
}

func TestLookup(t *testing.T) {
	store := NewStore()
	store.Add("ev2024", "title", "English", "Spring Retreat")
	store.Add("ev2024", "title", "Spanish", "Retiro de Primavera")

	t.Run("exact scope and language", func(t *testing.T) {
		r := NewResolver(store, "Spanish", "ev2024", "")
		if got := r.Lookup("title"); got != "Retiro de Primavera" {
			t.Errorf("unexpected value: %s", got)
		}
	})

	t.Run("miss returns tagged sentinel, no language fallback", func(t *testing.T) {
		r := NewResolver(store, "French", "ev2024", "")
		if got := r.Lookup("title"); got != "ev2024-title-French-unknown" {
			t.Errorf("unexpected value: %s", got)
		}
	})

	t.Run("empty language defaults to English", func(t *testing.T) {
		r := NewResolver(store, "", "ev2024", "")
		if got := r.Lookup("title"); got != "Spring Retreat" {
			t.Errorf("unexpected value: %s", got)
		}
	})
}

func TestLookupScoped(t *testing.T) {
	store := NewStore()
	store.Add("ev2024b", "title", "English", "Aliased Title")

	r := NewResolver(store, "English", "dashboard", "")

	t.Run("alias overrides scope", func(t *testing.T) {
		if got := r.LookupScoped("ev2024", "ev2024b", "title"); got != "Aliased Title" {
			t.Errorf("unexpected value: %s", got)
		}
	})

	t.Run("without alias the scope is used as-is", func(t *testing.T) {
		if got := r.LookupScoped("ev2024", "", "title"); got != "ev2024-title-English-unknown" {
			t.Errorf("unexpected value: %s", got)
		}
	})
}

func TestLookupHTML(t *testing.T) {
	store := NewStore()
	store.Add("dashboard", "welcome", "English", "Hi ||email||, see ||title|| before ||deadline||. Write to ||email||.")
	store.Add("dashboard", "title", "English", "Spring Retreat")
	store.Add("dashboard", "deadline", "English", "May 1")

	r := NewResolver(store, "English", "dashboard", "a@b.com")

	t.Run("substitutes title, deadline and all email occurrences", func(t *testing.T) {
		got := r.LookupHTML("welcome")
		want := "Hi a@b.com, see Spring Retreat before May 1. Write to a@b.com."
		if got.HTML != want {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})

	t.Run("simple case", func(t *testing.T) {
		store := NewStore()
		store.Add("dashboard", "welcome", "English", "Hi ||email||")
		r := NewResolver(store, "English", "dashboard", "a@b.com")
		if got := r.LookupHTML("welcome"); got.HTML != "Hi a@b.com" {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})

	t.Run("substitution is single-level", func(t *testing.T) {
		store := NewStore()
		store.Add("dashboard", "welcome", "English", "see ||title||")
		store.Add("dashboard", "title", "English", "title is ||deadline||")
		r := NewResolver(store, "English", "dashboard", "")
		got := r.LookupHTML("welcome")
		// the substituted title text is not re-scanned, but the top-level
		// deadline pass still runs over the whole string
		if got.HTML != "see title is dashboard-deadline-English-unknown" {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})
}

func TestLookupHTMLWithArgs(t *testing.T) {
	store := NewStore()
	store.Add("ev2024", "foo", "English", "arg ||arg1|| then ||arg2|| and ||title||")
	store.Add("ev2024", "title", "English", "never used here")

	t.Run("replaces only positional args", func(t *testing.T) {
		r := NewResolver(store, "English", "ev2024", "a@b.com")
		got := r.LookupHTMLWithArgs("foo", "X")
		if got.HTML != "arg X then ||arg2|| and ||title||" {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})

	t.Run("falls back to English for missing language", func(t *testing.T) {
		r := NewResolver(store, "French", "ev2024", "")
		got := r.LookupHTMLWithArgs("foo", "X", "Y")
		if got.HTML != "arg X then Y and ||title||" {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})

	t.Run("sentinel for a fully missing key", func(t *testing.T) {
		r := NewResolver(store, "French", "ev2024", "")
		got := r.LookupHTMLWithArgs("nosuch")
		if got.HTML != "ev2024-nosuch-French-unknown" {
			t.Errorf("unexpected value: %s", got.HTML)
		}
	})
}

func TestLookupDescription(t *testing.T) {
	store := NewStore()
	store.Add("descriptions", "retreat", "English", "<p>About the retreat</p>")
	store.Add("descriptions", "blank", "English", "")

	r := NewResolver(store, "English", "ev2024", "")

	t.Run("resolves from the descriptions scope", func(t *testing.T) {
		got := r.LookupDescription("retreat")
		if got == nil || got.HTML != "<p>About the retreat</p>" {
			t.Errorf("unexpected value: %v", got)
		}
	})

	t.Run("stored empty text means intentionally blank", func(t *testing.T) {
		if got := r.LookupDescription("blank"); got != nil {
			t.Errorf("expected nil for empty description, got %v", got)
		}
	})

	t.Run("missing key yields sentinel content", func(t *testing.T) {
		got := r.LookupDescription("nosuch")
		if got == nil || got.HTML != "descriptions-nosuch-English-unknown" {
			t.Errorf("unexpected value: %v", got)
		}
	})
}
