// Package config loads the controller configuration from a YAML file.
//
// Every field has a working default, so a missing file yields a usable
// configuration and a partial file only overrides what it names.
package config
