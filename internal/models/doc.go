// Package models defines the data shapes exchanged with the reading-log API and the book catalog.
//
// The package contains three categories of types:
//
// 1. Remote entities: owned and persisted by the backend, decoded from its JSON responses
//   - [ChildProfile] : A child belonging to the signed-in parent
//   - [ReadingLog] : One "started" or "completed" reading entry
//   - [ReadingSummary] : Aggregate counters plus the current and last completed book
//
// 2. Catalog results: transient search hits from Open Library
//   - [BookResult] : Catalog key, title, authors and cover id
//
// 3. Request payloads and forms: validated locally before any network call
//   - [ParentAccount], [NewChild], [ReadingLogInput]
//   - [RegisterForm], [ChildForm]
//
// Validation failures are returned as [ValidationError], which unwraps to [shared.ErrInvalidInput].
package models
