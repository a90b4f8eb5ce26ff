// Package api contains the HTTP handlers for the Inkwell API. Handlers
// depend on store interfaces and the embedding Generator, decode and
// validate request bodies, and translate store errors into HTTP statuses.
package api
