// Package problem writes RFC 7807 problem details.
package problem

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// New builds a problem for r. Instance is the request path and RequestID is the
// chi request ID when one was assigned.
func New(r *http.Request, status int, title, detail string) Problem {
	p := Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
	if r != nil {
		p.Instance = r.URL.Path
		p.RequestID = chimw.GetReqID(r.Context())
	}
	return p
}

func Write(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	Render(w, New(r, status, title, detail))
}

func Render(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
