// Package store provides backing-store implementations for prefs accessors:
// in-memory, single JSON file, and SQLite. All implementations satisfy the
// prefs.Store contract and are safe for concurrent use. The core prefs
// package stays persistence-agnostic; anything with synchronous string
// get/set/remove semantics can serve as a backing store.
package store
