package api

import (
	"errors"
	"net/http"

	"github.com/aezell/chex/internal/model"
	"github.com/aezell/chex/internal/report"
	"github.com/aezell/chex/internal/source"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Parse ---

// outputRequest carries saved build output. Mode is "json", "text" or
// empty to detect it from the content.
type outputRequest struct {
	Output string `json:"output"`
	Mode   string `json:"mode,omitempty"`
	All    bool   `json:"all,omitempty"`
}

// collect parses the request output into a collection.
func (req outputRequest) collect() (*model.Collection, error) {
	if req.Output == "" {
		return nil, errors.New("output is required")
	}
	mode := source.Detect([]byte(req.Output))
	if req.Mode != "" {
		m, err := source.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	var keep source.Actionable
	if req.All {
		keep = source.KeepAll
	}
	return source.Parse(mode, []byte(req.Output), keep)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req outputRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	coll, err := req.collect()
	if err != nil {
		writeError(w, http.StatusBadRequest, "parsing output: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report.NewDocument(coll))
}
