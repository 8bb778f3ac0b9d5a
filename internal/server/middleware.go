package server

import (
	"net/http"
	"strings"
)

// requireAuth is the authorization gate. While no device is registered the
// daemon is in open mode and every request is admitted so the first client
// can bootstrap. Once a device exists, requests must carry a known bearer
// token; a match also stamps the device's last-seen time (best-effort).
//
// Rejections are uniform 401s: the gate never reveals which credentials
// exist.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.HasDevices() {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		device := s.auth.ValidateDeviceToken(token)
		if device == nil {
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}

		s.auth.UpdateLastSeen(device.ID)
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
