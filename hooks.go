package objcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// File tier hooks run on disk workers, not on the dispatcher.
type Hooks interface {
	// The Memory tier was emptied.
	// reason ∈ {"pressure", "explicit"}
	MemoryCleared(entries int, reason string)

	// A File tier operation failed. op ∈ {"load", "save", "exists", "remove"}.
	TierFailed(op string, tier Location, storageKey string, err error)

	// A transform or location strategy panicked and the panic was converted
	// into an error. op ∈ {"encode", "decode", "locate"}
	TransformPanicked(op, storageKey string, recovered any)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) MemoryCleared(int, string)                  {}
func (NopHooks) TierFailed(string, Location, string, error) {}
func (NopHooks) TransformPanicked(string, string, any)      {}
