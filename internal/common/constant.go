// Package common contains shared constants and sentinel errors used across
// the admin client and the stub record store.
package common

// HeaderRequestID is the HTTP header carrying the per-request identifier.
// The client generates it, the stub store echoes it back.
const HeaderRequestID = "X-Request-ID"

// DetailKey is the JSON key the record-store API uses for human-readable
// error messages.
const DetailKey = "detail"
