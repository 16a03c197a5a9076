package session_test

import (
	"testing"

	"github.com/JaimeStill/docqa/internal/session"
)

func TestNewSessionIsEmpty(t *testing.T) {
	s := session.New()
	if got := s.Get(); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
	if s.Active() {
		t.Error("new session should not be active")
	}
}

func TestSetReplaces(t *testing.T) {
	s := session.New()
	s.Set("doc-1")
	s.Set("doc-2")

	if got := s.Get(); got != "doc-2" {
		t.Errorf("Get() = %q, want doc-2", got)
	}
	if !s.Active() {
		t.Error("session should be active")
	}
}

func TestClear(t *testing.T) {
	s := session.New()
	s.Set("doc-1")
	s.Clear()

	if got := s.Get(); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
}
