// Package config loads the daemon settings from a YAML file and fills in
// defaults for anything left out.
package config
