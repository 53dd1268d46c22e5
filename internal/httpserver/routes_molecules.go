// internal/httpserver/routes_molecules.go
//
// Stateless catalog and molecule routes.
//   - GET  /catalog/atoms, /catalog/fragments, /catalog/bonus
//   - GET  /catalog/bonus/daily     → today's bonus target (DAILY_SALT)
//   - POST /molecules/parse         → structure report for one layout
//   - POST /molecules/equals        → {equal}
//   - POST /molecules/relate        → {collides, touches} at an offset
//   - POST /molecules/connect       → {connected, molecule}
//   - POST /molecules/transform     → rotate / flip / delocalize, then report
//
// Every request that names a molecule carries either "layout" (one string per
// line) or "text" (a single newline-separated block). Molecules above
// MAX_MOLECULE_ATOMS atoms (default 16) are rejected with 400.

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/chon/internal/daily"
	"github.com/robalobadob/chon/internal/molecule"
)

func (s *Server) mountCatalog(r chi.Router) {
	salt := getEnv("DAILY_SALT", "local_dev_salt")
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/atoms", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.cat.AtomSpecs())
		})
		r.Get("/fragments", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.cat.Fragments())
		})
		r.Get("/bonus", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.cat.Bonus())
		})
		r.Get("/bonus/daily", func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			spec, err := s.cat.DailyBonus(now, salt)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"date": daily.DateKey(now), "molecule": spec})
		})
	})
}

func (s *Server) mountMolecules(r chi.Router) {
	r.Route("/molecules", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/equals", s.handleEquals)
		r.Post("/relate", s.handleRelate)
		r.Post("/connect", s.handleConnect)
		r.Post("/transform", s.handleTransform)
	})
}

// moleculeReq is a molecule given as layout lines or as one text block.
type moleculeReq struct {
	Name   string   `json:"name"`
	Layout []string `json:"layout"`
	Text   string   `json:"text"`
}

var errMoleculeTooLarge = errors.New("molecule too large")

// build parses a request molecule and rejects molecules above maxAtoms.
func (s *Server) build(req moleculeReq) (*molecule.Molecule, error) {
	name := req.Name
	if name == "" {
		name = "molecule"
	}
	var m *molecule.Molecule
	var err error
	if req.Text != "" {
		m, err = molecule.ParseText(name, s.cat.Atoms(), req.Text)
	} else {
		m, err = s.cat.Parse(name, req.Layout)
	}
	if err != nil {
		return nil, err
	}
	if n := m.CountAtoms(""); n > s.maxAtoms {
		return nil, fmt.Errorf("%w: %d atoms, at most %d", errMoleculeTooLarge, n, s.maxAtoms)
	}
	return m, nil
}

type offset struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

type bondCounts struct {
	Single   int `json:"single"`
	Double   int `json:"double"`
	Triple   int `json:"triple"`
	Strength int `json:"strength"`
}

// moleculeView is the structure report returned by parse and transform.
type moleculeView struct {
	Name      string                `json:"name"`
	Cols      int                   `json:"cols"`
	Rows      int                   `json:"rows"`
	Layout    []string              `json:"layout"`
	Formula   string                `json:"formula"`
	Atoms     int                   `json:"atoms"`
	Bonds     bondCounts            `json:"bonds"`
	FreeBonds bool                  `json:"freeBonds"`
	Tree      bool                  `json:"tree"`
	Fragments [][]molecule.Position `json:"fragments"`
}

func viewOf(m *molecule.Molecule) moleculeView {
	cols, rows := m.Dim()
	layout := m.Layout()
	if layout == nil {
		layout = []string{}
	}
	frags := m.Fragments()
	if frags == nil {
		frags = [][]molecule.Position{}
	}
	return moleculeView{
		Name:    m.Name,
		Cols:    cols,
		Rows:    rows,
		Layout:  layout,
		Formula: m.Formula(),
		Atoms:   m.CountAtoms(""),
		Bonds: bondCounts{
			Single:   m.CountBonds(1),
			Double:   m.CountBonds(2),
			Triple:   m.CountBonds(3),
			Strength: m.CountBonds(0),
		},
		FreeBonds: m.HasFreeBonds(),
		Tree:      m.IsTree(),
		Fragments: frags,
	}
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, viewOf(m))
}

type pairReq struct {
	A      moleculeReq `json:"a"`
	B      moleculeReq `json:"b"`
	Offset offset      `json:"offset"`
}

func (s *Server) buildPair(req pairReq) (*molecule.Molecule, *molecule.Molecule, error) {
	a, err := s.build(req.A)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.build(req.B)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (s *Server) handleEquals(w http.ResponseWriter, r *http.Request) {
	var req pairReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a, b, err := s.buildPair(req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"equal": a.Equals(b)})
}

func (s *Server) handleRelate(w http.ResponseWriter, r *http.Request) {
	var req pairReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a, b, err := s.buildPair(req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	rel := molecule.Pos(req.Offset.Col, req.Offset.Row)
	writeJSON(w, http.StatusOK, map[string]bool{
		"collides": a.CollidesWith(b, rel),
		"touches":  a.Touches(b, rel),
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req pairReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a, b, err := s.buildPair(req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	ok, err := a.Connect(b, molecule.Pos(req.Offset.Col, req.Offset.Row))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connected": ok, "molecule": viewOf(a)})
}

type transformReq struct {
	Molecule   moleculeReq `json:"molecule"`
	Rotate     int         `json:"rotate"`
	Flip       string      `json:"flip"`
	Delocalize bool        `json:"delocalize"`
}

// handleTransform rotates first, then flips, then delocalizes.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	m, err := s.build(req.Molecule)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	m.Rotate(req.Rotate)
	if req.Flip != "" {
		if err := m.Flip(molecule.Orientation(req.Flip)); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if req.Delocalize {
		m.DelocalizeFreeBonds()
	}
	writeJSON(w, http.StatusOK, viewOf(m))
}
