package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jdehlin/aigent/internal/settings"
)

type authMiddleware struct {
	settings *settings.Manager
	logger   *slog.Logger
}

// NewAuthMiddleware checks the daemon auth key on incoming requests. Auth is
// disabled when no key is configured, matching local single-user use.
func NewAuthMiddleware(mgr *settings.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	am := &authMiddleware{
		settings: mgr,
		logger:   logger,
	}

	return am.middleware
}

func (am *authMiddleware) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := am.authenticate(r); err != nil {
			am.logger.Error("Authentication failed", "error", err, "remote_addr", r.RemoteAddr)
			http.Error(w, "not authorized", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (am *authMiddleware) authenticate(r *http.Request) error {
	authKey := am.settings.Get().AuthKey
	if authKey == "" {
		return nil
	}

	var token string

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	} else if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		token = apiKey
	}

	if token == "" {
		return errors.New("no authentication token provided")
	}

	if token != authKey {
		return errors.New("invalid auth key")
	}

	return nil
}
