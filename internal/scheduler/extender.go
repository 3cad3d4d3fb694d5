package scheduler

// Extender is an optional platform hook that asks the OS for extra
// execution time around a sync run, so a run started just before the
// process is backgrounded can attempt to finish. The returned release
// function must be called when the run completes.
type Extender interface {
	Extend(reason string) (release func())
}

// NoopExtender is used on platforms without a background-execution
// concept.
type NoopExtender struct{}

func (NoopExtender) Extend(string) func() {
	return func() {}
}
