// Package kit holds the transport-agnostic endpoint abstraction. An
// Endpoint is a single operation exposed over any transport (HTTP, MCP);
// middleware composes around it without knowing the wire format.
package kit

import "context"

// Endpoint is one request/response operation.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares left to right: the first argument is the
// outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
