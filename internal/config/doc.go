// Package config manages SkyCast's persistent user configuration.
//
// The configuration lives in a YAML file at the platform-appropriate config
// directory (XDG on Linux, ~/.config on macOS, %LOCALAPPDATA% on Windows).
// It stores application preferences - preferred units, the default place
// that seeds the selection pickers, API host overrides - and metadata for
// personal weather stations discovered on the local network.
//
// A second optional file in the same directory, catalog.yaml, extends the
// built-in geography catalog; see the geo package.
//
// Loading is lazy and process-wide via LoadRegistry. Saves are atomic
// (temp file plus rename) so a crash never leaves a corrupt config behind.
package config
