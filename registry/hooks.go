package registry

// Hooks lightweight callbacks for high-signal registry events.
// Implementations MUST be cheap and non-blocking.
// Registries call them on Register/Resolve hot paths.
type Hooks interface {
	// A handle was dropped without an explicit Release.
	// reason ∈ {"idle", "capacity"}
	Evicted(handle uint64, reason string)

	// Resolve was asked for a handle the registry does not hold.
	ResolveMiss(handle uint64)

	// The backing store refused a new handle (capacity pressure).
	RegisterRejected(typeName string)

	// The HandleSource failed to issue a handle.
	SourceError(err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Evicted(uint64, string)  {}
func (NopHooks) ResolveMiss(uint64)      {}
func (NopHooks) RegisterRejected(string) {}
func (NopHooks) SourceError(error)       {}
