package utils

import "testing"

func TestContainsString(t *testing.T) {
	if !ContainsString([]string{"a", "b"}, "b") {
		t.Error("expected true")
	}
	if ContainsString([]string{"a", "b"}, "c") {
		t.Error("expected false")
	}
	if ContainsString(nil, "a") {
		t.Error("expected false for nil slice")
	}
}

func TestPickLanguage(t *testing.T) {
	available := []string{"English", "Spanish"}

	t.Run("preferred language covered", func(t *testing.T) {
		if got := PickLanguage(available, "Spanish", "English"); got != "Spanish" {
			t.Errorf("unexpected language: %s", got)
		}
	})

	t.Run("falls back when not covered", func(t *testing.T) {
		if got := PickLanguage(available, "French", "English"); got != "English" {
			t.Errorf("unexpected language: %s", got)
		}
	})
}
