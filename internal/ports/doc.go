// Package ports defines the interfaces that connect the feedgate core to
// infrastructure adapters.
//
// The application layer (internal/app, internal/notify) depends only on
// these interfaces. Adapters (internal/adapters) provide the concrete
// implementations: file-backed storage, HTTP transport, terminal rendering,
// desktop notifications.
//
//   - [Transport]: issues backend requests (direct or callback fallback)
//   - [KeyValueStore]: profile-scoped persisted key/value state
//   - [Renderer]: presentational output for one content pane
//   - [Toaster], [AudioCue], [OsNotifier]: the three alert surfaces
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// Keeping ambient browser-ish capabilities (audio, notifications, storage)
// behind ports lets the core be exercised with fakes that simulate granted,
// denied, and unavailable states.
package ports
