package web

import (
	"net/http"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the basic auth user name
const AuthUser = "gridwatch"

// authMiddleware checks basic auth password against bcrypt hash
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok && username == AuthUser {
			if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err == nil {
				next.ServeHTTP(w, r)
				return
			}
			log.Printf("[WARN] invalid password from %s", r.RemoteAddr)
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="gridwatch"`)
		s.writeJSONError(w, http.StatusUnauthorized, "unauthorized")
	})
}

// HashPassword makes bcrypt hash suitable for Config.PasswordHash
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
