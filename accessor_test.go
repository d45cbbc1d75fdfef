package prefs

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"testing"
)

type fakeStore struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]string{}}
}

func (s *fakeStore) GetItem(key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *fakeStore) SetItem(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = value
	return nil
}

func (s *fakeStore) RemoveItem(key string) error {
	delete(s.entries, key)
	return nil
}

type recordingLogger struct {
	events []DiagnosticEvent
}

func (l *recordingLogger) LogDiagnostic(event DiagnosticEvent) {
	l.events = append(l.events, event)
}

func containsWorld(value string) bool {
	return strings.Contains(value, "world")
}

func TestGetWritesDefaultWhenStoreEmpty(t *testing.T) {
	backing := newFakeStore()
	root := New(backing)

	greeting, err := String(root, "greeting", WithDefault("hello world"))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if got := greeting.Get(); got != "hello world" {
		t.Fatalf("expected default, got %q", got)
	}
	if stored := backing.entries["greeting"]; stored != "hello world" {
		t.Fatalf("expected store to be repaired with default, got %q", stored)
	}
}

func TestPrefixResolution(t *testing.T) {
	backing := newFakeStore()
	root := New(backing, WithPrefix("blue-"))

	acc, err := String(root, "test", WithDefault("hi"))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if acc.Key() != "blue-test" {
		t.Fatalf("expected resolved key blue-test, got %q", acc.Key())
	}

	acc.Set("stored")
	if _, ok := backing.entries["test"]; ok {
		t.Fatalf("unprefixed key must never be written")
	}
	if backing.entries["blue-test"] != "stored" {
		t.Fatalf("expected write at blue-test, got %q", backing.entries["blue-test"])
	}
}

func TestGetRemovesInvalidEntryWithoutDefault(t *testing.T) {
	backing := newFakeStore()
	backing.entries["greeting"] = "hello country"
	root := New(backing)

	greeting, err := String(root, "greeting", WithValidate(containsWorld))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	value, ok := greeting.Lookup()
	if ok || value != "" {
		t.Fatalf("expected zero value and ok=false, got %q, %v", value, ok)
	}
	if _, exists := backing.entries["greeting"]; exists {
		t.Fatalf("expected invalid entry to be removed")
	}
}

func TestGetLeavesValidEntryUntouched(t *testing.T) {
	backing := newFakeStore()
	backing.entries["greeting"] = "hello world"
	root := New(backing)

	greeting, err := String(root, "greeting",
		WithDefault("fallback world"),
		WithValidate(containsWorld),
	)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if got := greeting.Get(); got != "hello world" {
		t.Fatalf("expected stored value, got %q", got)
	}
	if backing.entries["greeting"] != "hello world" {
		t.Fatalf("valid entry must not be rewritten")
	}
}

func TestInvalidDefaultRejectedAtProvision(t *testing.T) {
	root := New(newFakeStore())

	_, err := String(root, "greeting",
		WithDefault("hello country"),
		WithValidate(containsWorld),
	)
	var invalidDefault *InvalidDefaultValueError
	if !errors.As(err, &invalidDefault) {
		t.Fatalf("expected InvalidDefaultValueError, got %v", err)
	}
	if invalidDefault.Key != "greeting" {
		t.Fatalf("unexpected key in error: %q", invalidDefault.Key)
	}
	if root.Registry().Claimed("greeting") {
		t.Fatalf("failed provisioning must not claim the key")
	}
}

func TestNonStringDefaultRequiresMarshal(t *testing.T) {
	root := New(newFakeStore())

	_, err := Provision(root, "retries", WithDefault(42))
	var missingMarshal *MissingMarshalError
	if !errors.As(err, &missingMarshal) {
		t.Fatalf("expected MissingMarshalError, got %v", err)
	}

	// Same default with a codec provisions fine.
	if _, err := Provision(root, "retries", WithDefault(42), WithCodec(JSONCodec[int]())); err != nil {
		t.Fatalf("expected codec to satisfy marshal requirement: %v", err)
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	root := New(newFakeStore())

	if _, err := String(root, "greeting"); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	_, err := String(root, "greeting")
	var duplicate *DuplicateKeyError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
}

func TestSkipRegistrationAllowsSharedKeys(t *testing.T) {
	root := New(newFakeStore())

	if _, err := String(root, "shared", SkipRegistration[string]()); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	if _, err := String(root, "shared", SkipRegistration[string]()); err != nil {
		t.Fatalf("second skip-registration provision must not fail: %v", err)
	}
}

func TestUnregisterFreesKeyForReuse(t *testing.T) {
	root := New(newFakeStore())

	first, err := String(root, "greeting")
	if err != nil {
		t.Fatalf("first provision: %v", err)
	}
	first.Unregister()

	if _, err := String(root, "greeting"); err != nil {
		t.Fatalf("expected key to be reusable after unregister: %v", err)
	}
}

func TestRemoveKeepsRegistryClaim(t *testing.T) {
	backing := newFakeStore()
	root := New(backing)

	acc, err := String(root, "greeting", WithDefault("hello world"))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	acc.Set("hello world")
	acc.Remove()

	if _, exists := backing.entries["greeting"]; exists {
		t.Fatalf("expected entry to be deleted")
	}
	if _, err := String(root, "greeting"); err == nil {
		t.Fatalf("remove must not release the registry claim")
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	backing := newFakeStore()
	backing.entries["greeting"] = "hello world"
	logger := &recordingLogger{}
	root := New(backing, WithDiagnosticLogger(logger))

	greeting, err := String(root, "greeting", WithValidate(containsWorld))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	greeting.Set("hello country")
	if backing.entries["greeting"] != "hello world" {
		t.Fatalf("rejected set must leave the store unchanged, got %q", backing.entries["greeting"])
	}
	if len(logger.events) != 1 || logger.events[0].Severity != SeverityError {
		t.Fatalf("expected one error diagnostic, got %+v", logger.events)
	}
}

func TestNumericZeroNotConfusedWithAbsence(t *testing.T) {
	backing := newFakeStore()
	root := New(backing)

	retries, err := Number[int](root, "retries", WithDefault(42))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	retries.Set(0)
	if backing.entries["retries"] != "0" {
		t.Fatalf("expected marshaled zero, got %q", backing.entries["retries"])
	}
	if got := retries.Get(); got != 0 {
		t.Fatalf("falsy but valid value must not fall back to the default, got %d", got)
	}
}

func TestIdempotentRepair(t *testing.T) {
	backing := newFakeStore()
	backing.entries["retries"] = "not-a-number"
	root := New(backing)

	retries, err := Number[int](root, "retries", WithDefault(42))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	if got := retries.Get(); got != 42 {
		t.Fatalf("first get: expected default 42, got %d", got)
	}
	afterFirst := maps.Clone(backing.entries)

	if got := retries.Get(); got != 42 {
		t.Fatalf("second get: expected default 42, got %d", got)
	}
	if !maps.Equal(afterFirst, backing.entries) {
		t.Fatalf("repair must be idempotent: %v != %v", afterFirst, backing.entries)
	}
	if backing.entries["retries"] != "42" {
		t.Fatalf("expected repaired entry, got %q", backing.entries["retries"])
	}
}

func TestSetNonStringWithoutMarshalIsNoOp(t *testing.T) {
	backing := newFakeStore()
	logger := &recordingLogger{}
	root := New(backing, WithDiagnosticLogger(logger))

	raw, err := Provision[int](root, "raw")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	raw.Set(7)
	if len(backing.entries) != 0 {
		t.Fatalf("unmarshalable set must not touch the store")
	}
	if len(logger.events) != 1 || logger.events[0].Severity != SeverityError {
		t.Fatalf("expected one error diagnostic, got %+v", logger.events)
	}
}

func TestStoreReadErrorFallsBackToDefault(t *testing.T) {
	backing := newFakeStore()
	backing.getErr = fmt.Errorf("disk gone")
	logger := &recordingLogger{}
	root := New(backing, WithDiagnosticLogger(logger))

	greeting, err := String(root, "greeting", WithDefault("hello world"))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if got := greeting.Get(); got != "hello world" {
		t.Fatalf("expected default on read failure, got %q", got)
	}
	if len(logger.events) == 0 || logger.events[0].Severity != SeverityWarning {
		t.Fatalf("expected warning diagnostic, got %+v", logger.events)
	}
}

func TestDefaultValueReflectsConfiguration(t *testing.T) {
	root := New(newFakeStore())

	withDefault, err := Number[int](root, "with-default", WithDefault(42))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if value, ok := withDefault.DefaultValue(); !ok || value != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", value, ok)
	}

	optional, err := Number[int](root, "optional")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if value, ok := optional.DefaultValue(); ok || value != 0 {
		t.Fatalf("expected (0, false), got (%d, %v)", value, ok)
	}
}

func TestLookupDistinguishesDefaultFromNothing(t *testing.T) {
	root := New(newFakeStore())

	withDefault, err := String(root, "with-default", WithDefault("hello world"))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, ok := withDefault.Lookup(); !ok {
		t.Fatalf("lookup with a default must report ok")
	}

	optional, err := String(root, "optional")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, ok := optional.Lookup(); ok {
		t.Fatalf("lookup without default on empty store must report !ok")
	}
}

func TestSchemaDrivenAccessor(t *testing.T) {
	backing := newFakeStore()
	root := New(backing)

	schema, err := NewExprSchema(`value >= 0 && value <= 100`)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	volume, err := Number[int](root, "volume",
		WithDefault(50),
		WithSchema[int](schema),
	)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	volume.Set(80)
	if got := volume.Get(); got != 80 {
		t.Fatalf("expected 80, got %d", got)
	}

	volume.Set(250)
	if got := volume.Get(); got != 80 {
		t.Fatalf("out-of-range set must be rejected, got %d", got)
	}
}

func TestSchemaRejectsDefaultAtProvision(t *testing.T) {
	root := New(newFakeStore())

	schema, err := NewExprSchema(`value >= 0`)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	_, err = Number[int](root, "volume",
		WithDefault(-1),
		WithSchema[int](schema),
	)
	var invalidDefault *InvalidDefaultValueError
	if !errors.As(err, &invalidDefault) {
		t.Fatalf("expected InvalidDefaultValueError, got %v", err)
	}
}
