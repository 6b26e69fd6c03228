// Package config loads mkp configuration.
//
// Values are layered, later sources winning: the embedded defaults, a user
// file (TOML or YAML), MKP_* environment variables, and finally explicit
// overrides such as command-line flags.
package config
