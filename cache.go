package prefs

// ProgramCache stores compiled rule programs keyed by rule strings. Sharing
// one cache across schemas avoids recompiling identical rules.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
