package simulation

// A StateHolder is a component whose state can be saved.
type StateHolder interface {
	Name() string

	// State returns a snapshot that can be encoded as JSON.
	State() any
}
