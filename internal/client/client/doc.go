// Package client is the Remote Access Gateway of the admin client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Gateway interface) for the
//     record-store API: List, ListView, FetchOne, Create, Update, Remove,
//     Report and Ping.
//  2. An HTTP/JSON implementation (see HTTPGateway) that tags every request
//     with an X-Request-ID, logs round-trips at debug level and maps
//     failures onto the error taxonomy below.
//  3. Record, a decoded JSON object with typed accessors, and ListAll for
//     reading a whole collection page by page.
//
// # Error Handling
//
// A request that never produced a response fails with *TransportError,
// which matches ErrUnavailable via errors.Is. A non-2xx response fails with
// *ServerError carrying the status and the server's "detail" text. FetchOne
// treats 404 as an absent record rather than an error. There are no retries.
//
// Concurrency & Contexts
//
// HTTPGateway is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
