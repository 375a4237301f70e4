// Package tasks implements the user flows shared by the web app, the CLI and the TUI.
//
// # Core Operations
//
// [Engine] wraps a [services.API] and a [services.Catalog] and works against a [session.Store]:
//
//  1. Accounts : [Engine.RegisterParent], [Engine.LoginParent], [Engine.LoginChild], [Engine.Logout]
//     - Local validation runs before any network call
//     - Successful logins write the role's credential to the store
//
//  2. Dashboards : [Engine.ParentDashboard], [Engine.AddChild], [Engine.ChildDashboard], [Engine.ChildLogs]
//     - A missing token returns [shared.ErrNotAuthenticated]; callers redirect
//     - The reading summary is best-effort
//
//  3. Logging books : [Engine.SearchBooks], [Engine.SubmitLog]
//     - A [Modal] carries the log form through Closed, Open, Submitting and Failed
//
//  4. Family export : [Engine.ExportFamily]
//     - Fetches every child's log with a rate-limited worker pool and writes one file per child
//
// # Errors
//
// Failures meant for display are [*FlowError] values whose message matches what the pages show.
// [Message] turns any error into display text.
package tasks
