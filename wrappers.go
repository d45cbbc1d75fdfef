package prefs

import "time"

// Numeric constrains the Number wrapper to Go's built-in numeric kinds.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// String provisions a plain string accessor. The store is natively
// string-typed, so no codec is involved.
func String(root *Root, key string, opts ...AccessorOption[string]) (*Accessor[string], error) {
	return Provision(root, key, opts...)
}

// Boolean provisions a JSON-encoded boolean accessor.
func Boolean(root *Root, key string, opts ...AccessorOption[bool]) (*Accessor[bool], error) {
	return Provision(root, key, withWrapperCodec(JSONCodec[bool](), opts)...)
}

// Number provisions a JSON-encoded numeric accessor.
func Number[N Numeric](root *Root, key string, opts ...AccessorOption[N]) (*Accessor[N], error) {
	return Provision(root, key, withWrapperCodec(JSONCodec[N](), opts)...)
}

// Object provisions a JSON-encoded struct or map accessor.
func Object[T any](root *Root, key string, opts ...AccessorOption[T]) (*Accessor[T], error) {
	return Provision(root, key, withWrapperCodec(JSONCodec[T](), opts)...)
}

// Array provisions a JSON-encoded slice accessor.
func Array[E any](root *Root, key string, opts ...AccessorOption[[]E]) (*Accessor[[]E], error) {
	return Provision(root, key, withWrapperCodec(JSONCodec[[]E](), opts)...)
}

// MapOf provisions a map accessor stored as an ordered pair list.
func MapOf[K comparable, V any](root *Root, key string, opts ...AccessorOption[map[K]V]) (*Accessor[map[K]V], error) {
	return Provision(root, key, withWrapperCodec(PairListCodec[K, V](), opts)...)
}

// SetOf provisions a set accessor stored as an ordered element list.
func SetOf[E comparable](root *Root, key string, opts ...AccessorOption[map[E]struct{}]) (*Accessor[map[E]struct{}], error) {
	return Provision(root, key, withWrapperCodec(SetCodec[E](), opts)...)
}

// Date provisions a time accessor stored as an RFC 3339 string.
func Date(root *Root, key string, opts ...AccessorOption[time.Time]) (*Accessor[time.Time], error) {
	return Provision(root, key, withWrapperCodec(TimeCodec(), opts)...)
}

// withWrapperCodec places the wrapper's codec before caller options so an
// explicit WithCodec/WithMarshal/WithUnmarshal still wins.
func withWrapperCodec[T any](codec Codec[T], opts []AccessorOption[T]) []AccessorOption[T] {
	merged := make([]AccessorOption[T], 0, len(opts)+1)
	merged = append(merged, WithCodec(codec))
	merged = append(merged, opts...)
	return merged
}
