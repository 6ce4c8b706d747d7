package dashboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tkingovr/body-guard/api"
	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/host"
	"github.com/tkingovr/body-guard/internal/stage"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats, err := s.auditStore.Stats(r.Context())
	if err != nil {
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}
	renderPage(w, "overview", map[string]any{"Stats": stats})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.auditStore.Stats(r.Context())
	if err != nil {
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAPICheck runs the posted body through one stage. The stage is
// selected with ?stage=access|output_body (default output_body); method
// and path seen by the filters come from ?method= and ?path=.
func (s *Server) handleAPICheck(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := api.Stage(q.Get("stage"))
	if st == "" {
		st = api.StageOutputBody
	}
	if st != api.StageAccess && st != api.StageOutputBody {
		http.Error(w, "unknown stage "+string(st), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, DefaultMaxCheckBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	method := q.Get("method")
	if method == "" {
		method = http.MethodPost
	}
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	hr := host.NewRequest(method, path, s.arenaLimit)
	hr.ContentType = r.Header.Get("Content-Type")

	resp, err := stage.Check(r.Context(), s.pipeline, st, hr, body.MemoryLink(data))
	if err != nil {
		http.Error(w, "check failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
