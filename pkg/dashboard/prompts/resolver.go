package prompts

import (
	"fmt"
	"strings"

	dashboardTypes "github.com/program-framework/program-backend/pkg/dashboard/types"
)

// Placeholder tokens the resolver substitutes itself. Stored prompt text can
// carry further tokens (||name||, ||coord-email||, ||id||) that consumers
// replace after resolution.
const (
	PLACEHOLDER_TITLE    = "||title||"
	PLACEHOLDER_DEADLINE = "||deadline||"
	PLACEHOLDER_EMAIL    = "||email||"
	PLACEHOLDER_ARG1     = "||arg1||"
	PLACEHOLDER_ARG2     = "||arg2||"
	PLACEHOLDER_ARG3     = "||arg3||"
)

// HTMLContent wraps resolved display HTML.
type HTMLContent struct {
	HTML string `json:"html"`
}

// Resolver looks up display text for prompt keys against one store snapshot,
// one current language and one current scope. It is a pure lookup layer: a
// missing prompt degrades to a visibly tagged sentinel string, never an error.
type Resolver struct {
	Store        Store
	Language     string
	Scope        string
	StudentEmail string
}

func NewResolver(store Store, language string, scope string, studentEmail string) *Resolver {
	if language == "" {
		language = dashboardTypes.DEFAULT_LANGUAGE
	}
	return &Resolver{
		Store:        store,
		Language:     language,
		Scope:        scope,
		StudentEmail: studentEmail,
	}
}

// Lookup resolves key in the current scope and language. Exact matches only;
// a miss returns the sentinel so missing translations show up in the UI
// instead of rendering blank.
func (r *Resolver) Lookup(key string) string {
	return r.LookupScoped(r.Scope, "", key)
}

// LookupScoped resolves key in an explicit scope. A non-empty scopeAlias
// overrides scope (event aliasing).
func (r *Resolver) LookupScoped(scope string, scopeAlias string, key string) string {
	if scopeAlias != "" {
		scope = scopeAlias
	}
	text, found := r.Store.get(scope, key, r.Language)
	if !found {
		return unknownSentinel(scope, key, r.Language)
	}
	return text
}

// LookupHTML resolves like Lookup and substitutes the three well-known
// placeholders: ||title|| and ||deadline|| from recursive lookups in the same
// scope, ||email|| from the student's own address. Substitution is
// single-level; substituted text is not re-scanned.
func (r *Resolver) LookupHTML(key string) HTMLContent {
	text := r.Lookup(key)
	if strings.Contains(text, PLACEHOLDER_TITLE) {
		text = strings.ReplaceAll(text, PLACEHOLDER_TITLE, r.Lookup("title"))
	}
	if strings.Contains(text, PLACEHOLDER_DEADLINE) {
		text = strings.ReplaceAll(text, PLACEHOLDER_DEADLINE, r.Lookup("deadline"))
	}
	text = strings.ReplaceAll(text, PLACEHOLDER_EMAIL, r.StudentEmail)
	return HTMLContent{HTML: text}
}

// LookupHTMLWithArgs substitutes the positional placeholders ||arg1||..||arg3||
// only; title/deadline/email tokens stay untouched at this entry point. Unlike
// Lookup, a missing translation falls back to English within the same scope.
func (r *Resolver) LookupHTMLWithArgs(key string, args ...string) HTMLContent {
	text, found := r.Store.get(r.Scope, key, r.Language)
	if !found {
		text, found = r.Store.get(r.Scope, key, dashboardTypes.DEFAULT_LANGUAGE)
	}
	if !found {
		text = unknownSentinel(r.Scope, key, r.Language)
	}
	placeholders := []string{PLACEHOLDER_ARG1, PLACEHOLDER_ARG2, PLACEHOLDER_ARG3}
	for i, arg := range args {
		if i >= len(placeholders) {
			break
		}
		text = strings.ReplaceAll(text, placeholders[i], arg)
	}
	return HTMLContent{HTML: text}
}

// LookupDescription resolves key in the fixed "descriptions" scope. A stored
// empty string means "intentionally blank" and yields nil so callers can omit
// the UI section entirely.
func (r *Resolver) LookupDescription(key string) *HTMLContent {
	scope := dashboardTypes.PROMPT_SCOPE_DESCRIPTIONS
	text, found := r.Store.get(scope, key, r.Language)
	if !found {
		text, found = r.Store.get(scope, key, dashboardTypes.DEFAULT_LANGUAGE)
	}
	if !found {
		return &HTMLContent{HTML: unknownSentinel(scope, key, r.Language)}
	}
	if text == "" {
		return nil
	}
	return &HTMLContent{HTML: text}
}

func unknownSentinel(scope string, key string, language string) string {
	return fmt.Sprintf("%s-%s-%s-unknown", scope, key, language)
}

// IsUnknownSentinel reports whether a resolved text is a miss sentinel, i.e.
// the key had no stored translation at all.
func IsUnknownSentinel(text string) bool {
	return strings.HasSuffix(text, "-unknown")
}
