package prefs

// Severity classifies diagnostic events.
type Severity string

const (
	// SeverityWarning marks degraded but self-healed conditions.
	SeverityWarning Severity = "warning"
	// SeverityError marks rejected writes.
	SeverityError Severity = "error"
)

// DiagnosticEvent describes a degraded get/set outcome for logging.
type DiagnosticEvent struct {
	Severity Severity
	Op       string
	Key      string
	Reason   string
}

// DiagnosticLogger records diagnostic events. Accessors never abort on a
// run-time condition; everything non-fatal flows through here.
type DiagnosticLogger interface {
	LogDiagnostic(DiagnosticEvent)
}

// DiagnosticLoggerFunc adapts a function to DiagnosticLogger.
type DiagnosticLoggerFunc func(DiagnosticEvent)

// LogDiagnostic implements DiagnosticLogger.
func (f DiagnosticLoggerFunc) LogDiagnostic(event DiagnosticEvent) {
	if f != nil {
		f(event)
	}
}

type noopDiagnosticLogger struct{}

func (noopDiagnosticLogger) LogDiagnostic(DiagnosticEvent) {}

// WithDiagnosticLogger attaches a diagnostic logger to the Root.
func WithDiagnosticLogger(logger DiagnosticLogger) Option {
	return func(cfg *rootConfig) {
		if logger == nil {
			cfg.logger = noopDiagnosticLogger{}
			return
		}
		cfg.logger = logger
	}
}
