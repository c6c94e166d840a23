// Package apperr holds the validation error taxonomy shared by every service.
//
// A ValidationError is classified by its Type: FORMAT errors describe malformed
// input, BUSINESS_RULE errors describe a request that is well formed but
// forbidden by a domain rule, and UNIQUENESS errors describe a conflict with
// existing data. The HTTP layer maps them to 400 / 409 problem details.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationType string

const (
	TypeFormat       ValidationType = "FORMAT"
	TypeBusinessRule ValidationType = "BUSINESS_RULE"
	TypeUniqueness   ValidationType = "UNIQUENESS"
)

// ErrNotFound est la sentinelle commune, atteignable via errors.Is sur un *NotFoundError.
var ErrNotFound = errors.New("resource not found")

// ErrUnauthorized signale une requête sans identifiants valides.
var ErrUnauthorized = errors.New("missing or invalid credentials")

// ValidationError porte le type de validation et le champ (ou la règle) en cause.
type ValidationError struct {
	Type    ValidationType
	Field   string // nom du champ (FORMAT, UNIQUENESS) ou de la règle (BUSINESS_RULE)
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Format signale une entrée mal formée.
func Format(field, msg string) *ValidationError {
	return &ValidationError{Type: TypeFormat, Field: field, Message: msg}
}

// Formatf est la variante avec formatage.
func Formatf(field, format string, args ...any) *ValidationError {
	return Format(field, fmt.Sprintf(format, args...))
}

// BusinessRule signale la violation d'une règle métier (ex: SELF_LIKE).
func BusinessRule(rule, msg string) *ValidationError {
	return &ValidationError{Type: TypeBusinessRule, Field: rule, Message: msg}
}

// Uniqueness signale un conflit avec une donnée existante.
func Uniqueness(field, msg string) *ValidationError {
	return &ValidationError{Type: TypeUniqueness, Field: field, Message: msg}
}

// FormatErrors agrège plusieurs erreurs de format sur une même requête.
type FormatErrors []*ValidationError

func (fe FormatErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap expose les erreurs unitaires à errors.As / errors.Is.
func (fe FormatErrors) Unwrap() []error {
	errs := make([]error, len(fe))
	for i, e := range fe {
		errs[i] = e
	}
	return errs
}

// Add ajoute une ValidationError ou un lot FormatErrors ; nil est ignoré.
func (fe *FormatErrors) Add(err error) {
	switch e := err.(type) {
	case nil:
	case *ValidationError:
		*fe = append(*fe, e)
	case FormatErrors:
		*fe = append(*fe, e...)
	default:
		*fe = append(*fe, Format("", e.Error()))
	}
}

// OrNil retourne nil quand rien n'a été collecté, ce qui évite le piège de l'interface non-nil.
func (fe FormatErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// NotFoundError décrit une ressource absente.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound indique si err (ou une erreur enveloppée) est une absence de ressource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TypeOf retourne le type de la première ValidationError trouvée dans la chaîne.
func TypeOf(err error) (ValidationType, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Type, true
	}
	return "", false
}
