// Package embedding provides a client for the external embedding provider:
// an HTTP API that maps text to fixed-length numeric vectors used for
// semantic search.
package embedding
