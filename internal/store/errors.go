package store

// StoreError reports a failure of the restricted word storage. Msg is safe to show to
// clients; Err carries the underlying cause.
type StoreError struct {
	Msg string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
