package handlers

import "github.com/go-chi/chi/v5"

// Mountable is a feature handler that registers its own routes.
type Mountable interface {
	Mount(r chi.Router)
}

// MountAll registers every handler on r in order. Nil entries are skipped so
// optional features can be left out of the list.
func MountAll(r chi.Router, ms ...Mountable) {
	for _, m := range ms {
		if m != nil {
			m.Mount(r)
		}
	}
}
