package ports

// KeyValueStore is the profile-scoped persisted namespace backing the
// session store. Values are JSON-serialized.
//
// Get never fails: a missing or undecodable value reports found == false
// and leaves out untouched, so callers fall back to their default. Set may
// fail (storage unavailable); callers treat that as a silent downgrade to
// in-memory state, not a user-visible error.
type KeyValueStore interface {
	// Get decodes the value stored under key into out.
	Get(key string, out any) (found bool)

	// Set stores v under key, serialized as JSON, atomically with respect
	// to concurrent Get/Set calls in this process.
	Set(key string, v any) error

	// Delete removes key. Missing keys are not an error.
	Delete(key string) error
}
