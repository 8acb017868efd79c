package emitter

// Counter observes delivery statistics. Emitted fires once per
// Emit/EmitAsync call with the size of the listener snapshot, Failed
// once per failing listener.
type Counter interface {
	Emitted(event string, listeners int)
	Failed(event string)
}

type noopCounter struct{}

func (noopCounter) Emitted(string, int) {}
func (noopCounter) Failed(string)       {}

// NewNoopCounter returns the counter used when no stats backend is
// configured.
func NewNoopCounter() Counter {
	return noopCounter{}
}
