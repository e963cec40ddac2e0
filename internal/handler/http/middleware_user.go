package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/utils"
)

const userIDHeader = "X-User-ID"

// ErrMissingUserHeader is returned when a request to the authenticated API
// surface arrives without the caller-identity header set by the gateway.
var ErrMissingUserHeader = errors.New("missing " + userIDHeader + " header")

// withUserID extracts the caller identity propagated by the API gateway in
// the X-User-ID header and stores it in the request context under
// [utils.UserIDCtxKey]. Requests without the header are rejected with
// HTTP 401 Unauthorized.
func (h *Handler) withUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			log.Err(ErrMissingUserHeader).Send()
			http.Error(w, ErrMissingUserHeader.Error(), http.StatusUnauthorized)
			return
		}

		l := log.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", userID)
		})

		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}
