// Package ui implements the child's reading dashboard in the terminal using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [LogView] : the reading log with the reading summary above it
//  2. [SearchView] : a catalog search box with its results
//
// Logging a book opens the single [tasks.Modal] over either view. A catalog result opens the
// catalog form (status and date); "a" opens the manual form (title, author, status, date).
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every network call runs as a [tea.Cmd]. Search results carry a sequence number and are dropped
// if a newer search was started or the child has left the search view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
