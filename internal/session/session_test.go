package session_test

import (
	"testing"

	"github.com/smart-records-api/internal/session"
)

func TestRegistrySingleActiveSession(t *testing.T) {
	reg := session.NewRegistry()

	first := reg.Start(1, "admin")
	if _, ok := reg.Active(first.ID); !ok {
		t.Fatal("first session should be active after Start")
	}

	second := reg.Start(1, "admin")
	if _, ok := reg.Active(first.ID); ok {
		t.Error("first session should be superseded by second login")
	}
	if _, ok := reg.Active(second.ID); !ok {
		t.Error("second session should be active")
	}
}

func TestRegistryEnd(t *testing.T) {
	reg := session.NewRegistry()

	s := reg.Start(2, "user")
	reg.End(s.ID)
	if _, ok := reg.Active(s.ID); ok {
		t.Error("session should not be active after End")
	}

	// завершение чужого ID не трогает активную сессию
	s2 := reg.Start(2, "user")
	reg.End("unknown-id")
	if _, ok := reg.Active(s2.ID); !ok {
		t.Error("ending an unknown id must not clear the active session")
	}
}

func TestRegistryActiveUnknown(t *testing.T) {
	reg := session.NewRegistry()
	if _, ok := reg.Active("nope"); ok {
		t.Error("empty registry should report no active session")
	}
}
