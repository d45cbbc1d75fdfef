// Package prefs provides validated, typed accessors over a persistent
// string-keyed key-value store.
//
// A Root binds a backing Store to an optional key prefix and owns a key
// Registry that rejects duplicate accessor provisioning. Accessors mediate
// every read and write: values are validated before they reach application
// code, invalid or missing entries are repaired from a configured default on
// read, and writes that fail validation degrade to logged no-ops instead of
// corrupting the store.
//
// Typed convenience constructors (String, Boolean, Number, Object, Array,
// MapOf, SetOf, Date) pre-configure the marshal/unmarshal pair appropriate to
// the shape; everything else flows through the generic Provision call.
package prefs
