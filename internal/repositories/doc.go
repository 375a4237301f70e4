// Package repositories implements SQLite persistence for state the front-end owns locally.
//
// Domain entities (children, reading logs) are owned by the backend API and are never stored here.
// The only local state is the credential set a browser would keep in local storage:
//   - [CredentialRepository] : key/value rows in the credentials table, implementing session.Backend
//
// Writes are upserts, so concurrent processes resolve to the last write.
package repositories
