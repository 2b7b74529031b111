package unit

// NoopName is the name of the built-in unit that does nothing.
const NoopName = "postcompile.Noop"

// Noop is a unit that succeeds without side effects. It is useful to verify a
// configuration end to end.
type Noop struct{}

// Run implements Runnable.
func (Noop) Run() error {
	return nil
}

func init() {
	MustRegister(Platform, NoopName, func() (Noop, error) {
		return Noop{}, nil
	})
}
