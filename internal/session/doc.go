// Package session is the credential store shared by every page, command and view.
//
// A [Store] keeps at most one [Credential] per [models.Role] under the keys a browser would keep in
// local storage (parentToken, parentId, parentName, childToken, childId, childName). Token contents are
// never inspected: a missing token is the only local failure signal and surfaces as
// [shared.ErrNotAuthenticated].
//
// Storage is delegated to a [Backend]:
//   - [MemoryBackend] : mutex-guarded map, used by tests and short-lived processes
//   - [CookieBackend] : a gorilla/sessions session, used by the web app
//   - repositories.CredentialRepository : SQLite table, used by the CLI and TUI
package session
