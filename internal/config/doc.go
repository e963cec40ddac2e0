// Package config provides configuration loading, merging, and validation
// facilities for the paycore services.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig]. All values are resolved
// once at process startup; nothing in this package is request-scoped.
package config
