package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

const (
	ProblemContentType = "application/problem+json"
	problemBase        = "https://api.tweetsuite.dev/errors/"
)

// Problem est le corps d'erreur RFC 7807 renvoyé par tous les services.
type Problem struct {
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Status         int       `json:"status"`
	Detail         string    `json:"detail"`
	Instance       string    `json:"instance,omitempty"`
	ValidationType string    `json:"validationType,omitempty"`
	FieldName      string    `json:"fieldName,omitempty"`
	RuleName       string    `json:"ruleName,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func (p *Problem) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// ProblemFor classe une erreur et construit le Problem correspondant.
func ProblemFor(err error) *Problem {
	p := &Problem{Timestamp: time.Now().UTC()}

	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		p.ValidationType = string(ve.Type)
		p.Detail = err.Error()
		switch ve.Type {
		case apperr.TypeBusinessRule:
			p.Type = problemBase + "business-rule-validation"
			p.Title = "Business Rule Validation Error"
			p.Status = http.StatusConflict
			p.RuleName = ve.Field
		case apperr.TypeUniqueness:
			p.Type = problemBase + "uniqueness-validation"
			p.Title = "Uniqueness Validation Error"
			p.Status = http.StatusConflict
			p.FieldName = ve.Field
		default:
			p.Type = problemBase + "validation"
			p.Title = "Validation Error"
			p.Status = http.StatusBadRequest
			p.FieldName = ve.Field
		}
	case apperr.IsNotFound(err):
		p.Type = problemBase + "not-found"
		p.Title = "Resource Not Found"
		p.Status = http.StatusNotFound
		p.Detail = err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		p.Type = problemBase + "unauthorized"
		p.Title = "Unauthorized"
		p.Status = http.StatusUnauthorized
		p.Detail = err.Error()
	default:
		p.Type = problemBase + "internal-server-error"
		p.Title = "Internal Server Error"
		p.Status = http.StatusInternalServerError
		p.Detail = "An unexpected error occurred"
	}
	return p
}

// WriteProblem rend err en application/problem+json. Les erreurs internes sont
// loguées et leur détail n'est jamais exposé.
func WriteProblem(w http.ResponseWriter, r *http.Request, err error) {
	p := ProblemFor(err)
	p.Instance = r.URL.Path

	if p.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "❌ Unhandled error", "path", p.Instance, "error", err)
	} else {
		slog.DebugContext(r.Context(), "request rejected", "status", p.Status, "validation_type", p.ValidationType, "error", err)
	}

	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
