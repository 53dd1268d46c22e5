// internal/httpserver/server.go
//
// HTTP server wiring for the chon backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Catalog endpoints: atoms, fragments, bonus targets, daily bonus.
//   - Molecule endpoints: parse, equals, relate, connect, transform.
//   - Game endpoints: new session, snapshot, actions (game token required),
//     websocket feed of snapshots.
//   - Library endpoints backed by SQLite.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the token cookie works).
//   - Game tokens are HS256 JWTs whose "gid" claim names the one session they
//     may drive. Reading a session is public.
//   - Errors are JSON bodies of the form {"error":"..."}.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chon/internal/catalog"
	"github.com/robalobadob/chon/internal/game"
	"github.com/robalobadob/chon/internal/library"
	"github.com/robalobadob/chon/internal/molecule"
	"github.com/robalobadob/chon/internal/store"
)

// Server bundles router, session store, molecule library and catalog.
type Server struct {
	r     *chi.Mux
	store store.Store
	lib   *library.Store
	cat   *catalog.Catalog
	feed  *Feed
	seed  func() int64

	maxAtoms int // largest molecule accepted from a request
}

// maxBodyBytes bounds every request body outside the websocket feed.
const maxBodyBytes = 64 << 10

// New constructs a Server, installs middleware, and registers routes.
// lib may be nil, in which case the /library routes answer 503.
func New(st store.Store, lib *library.Store, cat *catalog.Catalog) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		lib:   lib,
		cat:   cat,
		feed:  NewFeed(),
		seed:  seedFromEnv(),

		maxAtoms: intFromEnv("MAX_MOLECULE_ATOMS", 16),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"chon-go","endpoints":["/health","/catalog/*","POST /molecules/*","POST /game/new","/library"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// The websocket feed is long-lived, so it stays outside the timeout group.
	s.r.Get("/game/{id}/ws", s.handleGameFeed)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(chimw.RequestSize(maxBodyBytes)) // bound request bodies
		s.mountCatalog(r)
		s.mountMolecules(r)
		s.mountGame(r)
		s.mountLibrary(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Close stops the websocket feed.
func (s *Server) Close() error { return s.feed.Close() }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- errors ------------------------------------

// writeError sends {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeErr maps domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, molecule.ErrCorruptBondData):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("corrupt bond data")
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, molecule.ErrInvalidSymbol),
		errors.Is(err, molecule.ErrNotAdjacent),
		errors.Is(err, molecule.ErrNotAnAtom),
		errors.Is(err, molecule.ErrInvalidBondCount),
		errors.Is(err, molecule.ErrInsufficientFreeBonds),
		errors.Is(err, molecule.ErrInvalidOrientation),
		errors.Is(err, molecule.ErrMisplacedAtom),
		errors.Is(err, errMoleculeTooLarge),
		errors.Is(err, library.ErrEmptyMolecule),
		errors.Is(err, game.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, library.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownMolecule):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// intFromEnv returns k as a positive integer, or def.
func intFromEnv(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}

// seedFromEnv returns the seed source for new sessions. GAME_SEED=0 (the
// default) seeds from the clock; any other value makes every session replay
// the same piece sequence.
func seedFromEnv() func() int64 {
	if n, err := strconv.ParseInt(getEnv("GAME_SEED", "0"), 10, 64); err == nil && n != 0 {
		return func() int64 { return n }
	}
	return func() int64 { return time.Now().UnixNano() }
}
