// Package ui implements the intelwatch settings editor on Bubble Tea.
//
// The screen shows one column per watch list (channels, systems, characters).
// Entries are added, edited inline and removed from the focused column, and
// every change is written to the settings file straight away so the next poll
// cycle sees it. Below the lists a footer shows the chat logs currently being
// watched, the newest alerts and either a status message or the key help.
//
// The model reads two stores:
//
//   - settings.Store: the lists being edited
//   - state.Store: poll activity, refreshed on every tick
//
// Quitting cancels the context passed in Options so the poll loop stops with
// the UI.
package ui
