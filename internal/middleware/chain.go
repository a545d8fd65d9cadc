package middleware

import (
	"log/slog"
	"net/http"

	"github.com/jdehlin/aigent/internal/settings"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain is an ordered middleware composition.
type Chain struct {
	middlewares []Middleware
}

func New(middlewares ...Middleware) Chain {
	return Chain{middlewares: middlewares}
}

// Then adds more middleware to the chain.
func (c Chain) Then(middlewares ...Middleware) Chain {
	return Chain{middlewares: append(c.middlewares, middlewares...)}
}

// Handler applies all middleware in the chain to the given handler.
func (c Chain) Handler(handler http.Handler) http.Handler {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}

	return handler
}

// Set contains the configured middleware for easy composition.
type Set struct {
	Logging Middleware
	Auth    Middleware
}

func NewSet(mgr *settings.Manager, logger *slog.Logger) Set {
	return Set{
		Logging: NewLoggingMiddleware(logger),
		Auth:    NewAuthMiddleware(mgr, logger),
	}
}

// DefaultChain is the standard chain for gateway endpoints.
func (s Set) DefaultChain() Chain {
	return New(s.Logging, s.Auth)
}

// HealthChain is the chain for health endpoints (no auth).
func (s Set) HealthChain() Chain {
	return New(s.Logging)
}
