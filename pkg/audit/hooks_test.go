package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-prefs/pkg/audit"
)

type recordingHook struct {
	events []audit.Event
	err    error
}

func (h *recordingHook) Notify(_ context.Context, event audit.Event) error {
	h.events = append(h.events, event)
	return h.err
}

func TestHooksNotifyFansOut(t *testing.T) {
	first := &recordingHook{}
	second := &recordingHook{}
	hooks := audit.Hooks{first, second}

	event := audit.Event{Verb: "set", Key: "greeting"}
	if err := hooks.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("expected both hooks to fire, got %d and %d", len(first.events), len(second.events))
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	hook := &recordingHook{}
	hooks := audit.Hooks{hook}

	if err := hooks.Notify(context.Background(), audit.Event{Verb: "set"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := hooks.Notify(context.Background(), audit.Event{Key: "greeting"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(hook.events) != 0 {
		t.Fatalf("expected no deliveries for incomplete events, got %d", len(hook.events))
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	failure := errors.New("sink down")
	failing := &recordingHook{err: failure}
	healthy := &recordingHook{}
	hooks := audit.Hooks{failing, healthy}

	err := hooks.Notify(context.Background(), audit.Event{Verb: "set", Key: "greeting"})
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined error to include the failure, got %v", err)
	}
	if len(healthy.events) != 1 {
		t.Fatalf("one failing hook must not block the others")
	}
}

func TestHooksEnabled(t *testing.T) {
	if (audit.Hooks{}).Enabled() {
		t.Fatalf("empty hooks must report disabled")
	}
	if !(audit.Hooks{&recordingHook{}}).Enabled() {
		t.Fatalf("non-empty hooks must report enabled")
	}
}

func TestNormalizeEvent(t *testing.T) {
	normalized := audit.NormalizeEvent(audit.Event{
		Verb:     "  set ",
		Key:      " greeting ",
		Channel:  " settings ",
		Metadata: map[string]any{"previous": "hi"},
	})

	if normalized.Verb != "set" || normalized.Key != "greeting" || normalized.Channel != "settings" {
		t.Fatalf("expected trimmed fields, got %+v", normalized)
	}
	if normalized.OccurredAt.IsZero() {
		t.Fatalf("expected timestamp to be stamped")
	}
	if normalized.Metadata["previous"] != "hi" {
		t.Fatalf("expected metadata passthrough, got %v", normalized.Metadata)
	}
}

func TestNormalizeEventKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	normalized := audit.NormalizeEvent(audit.Event{Verb: "set", Key: "k", OccurredAt: at})
	if !normalized.OccurredAt.Equal(at) {
		t.Fatalf("explicit timestamp must survive, got %v", normalized.OccurredAt)
	}
}
