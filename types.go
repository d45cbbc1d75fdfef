package prefs

// Store is the backing-store contract required from the environment: a
// synchronous, string-keyed, string-valued key-value service. GetItem reports
// absence through its second return value; errors are reserved for storage
// faults and are absorbed by accessors (reads degrade to absence, writes to
// diagnostics).
type Store interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Schema validates arbitrary values, typically by evaluating a configured
// rule expression. Implementations must be safe for concurrent use and must
// never panic on unexpected input.
type Schema interface {
	IsValid(value any) bool
}

// Codec pairs the functions converting a typed value to and from the store's
// string representation.
type Codec[T any] struct {
	Marshal   func(T) (string, error)
	Unmarshal func(string) (T, error)
}
