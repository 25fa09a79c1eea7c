package offcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A successful asset response was snapshotted into the active generation.
	SnapshotStored(key string, size int)

	// A successful asset response was returned to the caller but not cached.
	// reason ∈ {"status", "cross_origin", "too_large"}
	SnapshotRejected(key, reason string)

	// A background cache write failed after the response was already served.
	StoreWriteFailed(key string, err error)

	// A stored entry could not be used and was treated as a miss.
	// reason ∈ {"read_error", "corrupt"}
	EntrySkipped(key, reason string)

	// A request was answered from the cache or synthesized instead of the
	// network. source ∈ {"entry", "shell", "offline_html", "offline_asset", "offline_api"}
	FallbackServed(key, source string)

	// Install aborted on a failed seed; no generation was left behind.
	InstallAborted(version, seed string, err error)

	// Lifecycle transitions during Activate.
	GenerationActivated(version string)
	GenerationPurged(name string)
	PurgeFailed(name string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SnapshotStored(string, int)           {}
func (NopHooks) SnapshotRejected(string, string)      {}
func (NopHooks) StoreWriteFailed(string, error)       {}
func (NopHooks) EntrySkipped(string, string)          {}
func (NopHooks) FallbackServed(string, string)        {}
func (NopHooks) InstallAborted(string, string, error) {}
func (NopHooks) GenerationActivated(string)           {}
func (NopHooks) GenerationPurged(string)              {}
func (NopHooks) PurgeFailed(string, error)            {}
