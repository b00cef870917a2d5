package logging

// NopLogger discards every entry.
type NopLogger struct{}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return &NopLogger{} }

func (n *NopLogger) Debug(string, ...Field) {}
func (n *NopLogger) Info(string, ...Field) {}
func (n *NopLogger) Warn(string, ...Field) {}
func (n *NopLogger) Error(string, ...Field) {}
func (n *NopLogger) With(...Field) Logger { return n }
func (n *NopLogger) Sync() error { return nil }
