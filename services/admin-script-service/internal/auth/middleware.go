// Package auth protège les scripts d'administration par une clé partagée.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
)

const HeaderAPIKey = "X-Admin-Key"

// Middleware exige la clé dans "Authorization: Bearer <key>" ou dans X-Admin-Key.
// Une clé vide désactive le contrôle (environnement local).
func Middleware(apiKey string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extraction
			key := r.Header.Get(HeaderAPIKey)
			if header := r.Header.Get("Authorization"); key == "" && header != "" {
				var ok bool
				if key, ok = strings.CutPrefix(header, "Bearer "); !ok {
					httpx.WriteProblem(w, r, apperr.ErrUnauthorized)
					return
				}
			}

			// 2. Comparaison à temps constant
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				httpx.WriteProblem(w, r, apperr.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
