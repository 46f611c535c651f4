// Package picker implements the searchable single-select dropdown used by
// SkyCast's geo-selection flow (country, state, city, and unit pickers).
//
// A picker reconciles three things: a supplied item list, the free-text
// search the user is typing, and at most one committed selection. Typing
// filters the candidate list by case-insensitive substring match; clicking a
// row or pressing Enter on an unambiguous match commits it. State→city
// lists are filtered hierarchically: a state stays visible only while at
// least one of its cities matches.
//
// The widget is a Bubble Tea component. It emits ChangedMsg exactly once
// per commit and TextChangedMsg once per keystroke; the owning form routes
// on the picker ID. Mouse events from the program-wide stream are checked
// against the picker's bounds so a click elsewhere closes the options panel.
package picker
