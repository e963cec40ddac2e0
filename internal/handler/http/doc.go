// Package http implements the HTTP transport layer of the payment core.
//
// It exposes route wiring, request handlers, and middleware for two
// surfaces: the facilitator protocol (POST /verify, POST /settle) and the
// credential vault / payment API consumed by the product backend.
// Cross-cutting concerns such as request tracing, access logging, and
// panic recovery are handled in this package before requests are delegated
// to the service layer.
package http
