// internal/httpserver/routes_library.go
//
// Molecule library routes (SQLite, see internal/library).
//   - POST   /library          → save {name, layout}; 201 when new, 200 when
//                                the same drawing was already saved
//   - GET    /library          → newest entries (?limit=, default 50)
//   - GET    /library/{name}   → latest entry with that name
//   - DELETE /library/{id}     → remove an entry
//   - POST   /library/match    → entries structurally equal to a layout

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) mountLibrary(r chi.Router) {
	r.Route("/library", func(r chi.Router) {
		r.Use(s.requireLibrary)
		r.Post("/", s.handleSaveMolecule)
		r.Get("/", s.handleListMolecules)
		r.Post("/match", s.handleMatchMolecule)
		r.Get("/{name}", s.handleGetMolecule)
		r.Delete("/{id}", s.handleDeleteMolecule)
	})
}

// requireLibrary answers 503 when the server runs without a database.
func (s *Server) requireLibrary(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.lib == nil {
			writeError(w, http.StatusServiceUnavailable, "library_unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type saveReq struct {
	Name   string   `json:"name"`
	Layout []string `json:"layout"`
}

func (s *Server) handleSaveMolecule(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if _, err := s.build(moleculeReq{Name: req.Name, Layout: req.Layout}); err != nil {
		writeErr(w, r, err)
		return
	}
	e, created, err := s.lib.Save(r.Context(), req.Name, req.Layout)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info().Str("id", e.ID).Str("name", e.Name).Str("formula", e.Formula).Msg("molecule saved")
	}
	writeJSON(w, status, e)
}

func (s *Server) handleListMolecules(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.lib.List(r.Context(), limit)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMolecule(w http.ResponseWriter, r *http.Request) {
	e, err := s.lib.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteMolecule(w http.ResponseWriter, r *http.Request) {
	if err := s.lib.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMatchMolecule(w http.ResponseWriter, r *http.Request) {
	var req moleculeReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	m, err := s.build(req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	matches, err := s.lib.FindEquivalent(r.Context(), m)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
