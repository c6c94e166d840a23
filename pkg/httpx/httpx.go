// Package httpx regroupe la plomberie HTTP commune aux services : adaptateur de
// handlers retournant une erreur, décodage JSON, lecture des paramètres et
// rendu des erreurs au format Problem Details (RFC 7807).
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
)

const maxBodyBytes = 1 << 20

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap transforme un handler qui retourne une erreur en http.Handler.
// Toute erreur est rendue en problem+json via WriteProblem.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteProblem(w, r, err)
		}
	})
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode lit le corps JSON de la requête. Les champs inconnus et les corps
// vides sont des erreurs de FORMAT.
func Decode[T any](r *http.Request) (T, error) {
	var t T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return t, apperr.Format("body", "request body is required")
		}
		return t, apperr.Formatf("body", "malformed JSON: %v", err)
	}
	return t, nil
}

// PathUUID lit un segment de chemin et vérifie qu'il s'agit d'un UUID.
func PathUUID(r *http.Request, name string) (string, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Formatf(name, "must be a valid UUID, got %q", raw)
	}
	return id.String(), nil
}

// ParseUUID valide un identifiant reçu dans un corps JSON.
func ParseUUID(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Format(field, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Formatf(field, "must be a valid UUID, got %q", raw)
	}
	return id.String(), nil
}

func QueryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Formatf(key, "must be an integer, got %q", s)
	}
	return n, nil
}

// PageRequest lit ?page=&size= et applique les bornes de paging.
func PageRequest(r *http.Request) (paging.Request, error) {
	page, err := QueryInt(r, "page", 0)
	if err != nil {
		return paging.Request{}, err
	}
	size, err := QueryInt(r, "size", paging.DefaultSize)
	if err != nil {
		return paging.Request{}, err
	}
	return paging.New(page, size)
}
