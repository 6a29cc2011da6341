// Package config provides configuration loading, merging, and validation
// facilities for the uci-relay binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables
//  4. Command-line flags
//
// The main entry points are [GetServerConfig] and [GetClientConfig], which
// return validated role-specific views of [StructuredConfig].
package config
