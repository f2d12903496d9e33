// Package store provides the typed session store: the single source of
// truth for all persisted client state.
package store

import (
	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// Persisted keys. The names match the original deployment's local storage
// so a migrated profile keeps its identity.
const (
	KeyToken       = "auth_token"
	KeyDeviceID    = "device_id"
	KeyVersions    = "feed_versions"
	KeyNotifyPerm  = "notify_permission"
	KeyAudioUnlock = "audio_unlocked"
	KeyTheme       = "theme_pref"
)

// Session wraps a KeyValueStore with typed accessors for the client's
// persisted state. Reads fall back to zero values; write failures are
// logged and swallowed (storage is best-effort, never a user-visible error).
type Session struct {
	kv     ports.KeyValueStore
	logger log.Logger
}

// NewSession creates a session store over kv.
func NewSession(kv ports.KeyValueStore, logger log.Logger) *Session {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Session{kv: kv, logger: logger}
}

// Token returns the access token, or "" in the locked state.
func (s *Session) Token() string {
	var tok string
	s.kv.Get(KeyToken, &tok)
	return tok
}

// SetToken persists the access token.
func (s *Session) SetToken(tok string) {
	s.set(KeyToken, tok)
}

// ClearToken removes the access token, returning the client to the locked
// state on the next refresh.
func (s *Session) ClearToken() {
	if err := s.kv.Delete(KeyToken); err != nil {
		s.logger.Warn("clear token failed", log.Err(err))
	}
}

// DeviceID returns the persisted device identifier, or "".
func (s *Session) DeviceID() string {
	var id string
	s.kv.Get(KeyDeviceID, &id)
	return id
}

// SetDeviceID persists the device identifier. Returns false if storage is
// unavailable, in which case the caller holds a transient id.
func (s *Session) SetDeviceID(id string) bool {
	if err := s.kv.Set(KeyDeviceID, id); err != nil {
		s.logger.Warn("persist device id failed", log.Err(err))
		return false
	}
	return true
}

// VersionCache returns the cached version snapshot.
// known == false means no version check has ever completed; the snapshot
// value alone cannot tell, since a backend legitimately reports all-zero
// counters before its first publish.
func (s *Session) VersionCache() (v domain.VersionSnapshot, known bool) {
	known = s.kv.Get(KeyVersions, &v)
	return v, known
}

// SetVersionCache replaces the cached snapshot.
func (s *Session) SetVersionCache(v domain.VersionSnapshot) {
	s.set(KeyVersions, v)
}

// NotifyPermission returns the persisted OS-notification outcome.
// known == false means permission has never been determined.
func (s *Session) NotifyPermission() (granted, known bool) {
	known = s.kv.Get(KeyNotifyPerm, &granted)
	return granted, known
}

// SetNotifyPermission persists the granted/denied outcome.
func (s *Session) SetNotifyPermission(granted bool) {
	s.set(KeyNotifyPerm, granted)
}

// AudioUnlocked reports whether the audio-unlock probe has ever succeeded.
func (s *Session) AudioUnlocked() bool {
	var ok bool
	s.kv.Get(KeyAudioUnlock, &ok)
	return ok
}

// SetAudioUnlocked persists the unlock outcome.
func (s *Session) SetAudioUnlocked(ok bool) {
	s.set(KeyAudioUnlock, ok)
}

// Theme returns the persisted theme preference, defaulting to "light".
func (s *Session) Theme() string {
	theme := "light"
	s.kv.Get(KeyTheme, &theme)
	return theme
}

// SetTheme persists the theme preference.
func (s *Session) SetTheme(theme string) {
	s.set(KeyTheme, theme)
}

func (s *Session) set(key string, v any) {
	if err := s.kv.Set(key, v); err != nil {
		s.logger.Warn("session write failed", log.String("key", key), log.Err(err))
	}
}
