package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything it is given
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(format string, args ...interface{}) {}

// Progress receives completion increments from long-running phases.
// Deltas are fractions of the whole phase; Stop is called exactly once.
type Progress interface {
	Increment(delta float64)
	Stop()
}

// NopProgress ignores all progress updates
type NopProgress struct{}

// Increment implements Progress
func (NopProgress) Increment(delta float64) {}

// Stop implements Progress
func (NopProgress) Stop() {}
