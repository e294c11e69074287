// Package api handles incoming HTTP requests: routing, token authentication,
// per-action policy checks, request decoding and response formatting. It
// adapts HTTP to the user, catalog and auth services and maps their errors
// to status codes without exposing internal details.
package api
