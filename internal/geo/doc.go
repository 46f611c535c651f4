// Package geo provides the location and unit catalog that feeds SkyCast's
// selection pickers.
//
// Every selectable entity (country, state, city, temperature unit, or a
// state bundled with its cities) is an Item carrying an explicit Kind tag.
// Picker code dispatches on the tag instead of probing item shapes, so a
// flat list and a hierarchical state→city list are never confused.
//
// The built-in catalog covers a starter set of countries, states, and
// cities. A user catalog file (catalog.yaml in the SkyCast config
// directory) can extend or override it; see LoadUserCatalog.
package geo
