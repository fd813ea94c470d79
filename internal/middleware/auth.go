package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenCookie is the cookie that carries the viewer token.
const TokenCookie = "viewer_token"

// AuthMiddleware requires the viewer token on every request. The token is
// accepted as a bearer header, a "token" query parameter (WebSocket clients
// cannot set headers) or the viewer_token cookie. An empty token leaves the
// routes open.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(requestToken(r), token) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="puckscore"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Remember a query token so the browser can drop it from later URLs.
		if q := r.URL.Query().Get("token"); q != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     TokenCookie,
				Value:    q,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}
		next.ServeHTTP(w, r)
	})
}

func requestToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if q := r.URL.Query().Get("token"); q != "" {
		return q
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func validToken(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
