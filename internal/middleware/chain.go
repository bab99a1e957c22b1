package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that middlewares run in the order given, the first one
// outermost:
//
//	handler := Chain(mux,
//	    SecurityHeaders,      // runs first
//	    RequestLogging,       // runs second
//	    AuthMiddleware(auth), // runs last, closest to mux
//	)
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
