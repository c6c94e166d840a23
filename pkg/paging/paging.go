// Package paging models offset pagination shared by list endpoints.
package paging

import "github.com/jupiterclapton/tweetsuite/pkg/apperr"

const (
	DefaultSize = 20
	MaxSize     = 100
)

type Request struct {
	Page int
	Size int
}

// New valide page (>= 0) et size (1..MaxSize).
func New(page, size int) (Request, error) {
	var fe apperr.FormatErrors
	if page < 0 {
		fe = append(fe, apperr.Format("page", "must be greater than or equal to 0"))
	}
	if size < 1 || size > MaxSize {
		fe = append(fe, apperr.Formatf("size", "must be between 1 and %d", MaxSize))
	}
	if err := fe.OrNil(); err != nil {
		return Request{}, err
	}
	return Request{Page: page, Size: size}, nil
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

// Page est l'enveloppe JSON des listes paginées.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](items []T, req Request, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Map convertit le contenu d'une page sans toucher aux métadonnées.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
