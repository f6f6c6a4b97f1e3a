//go:build !debug

// Package debug exposes the build-time debug flag used across winnow components.
package debug

const Debug = false
