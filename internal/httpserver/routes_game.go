// internal/httpserver/routes_game.go
//
// Game session routes.
//   - POST /game/new          → {gameId, token, snapshot}; optional seed,
//                               reactor size, named or daily bonus target
//   - GET  /game/{id}         → snapshot (public)
//   - POST /game/{id}/action  → {result, snapshot}; needs the game token
//   - GET  /game/{id}/ws      → websocket feed (see feed.go)
//
// The game token is an HS256 JWT signed with JWT_SECRET carrying the session
// ID in "gid". It is returned in the body and also set as a cookie, so both
// API clients (Authorization: Bearer) and browsers can use it.

package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chon/internal/game"
)

var errBadToken = errors.New("invalid game token")

func (s *Server) mountGame(r chi.Router) {
	// Flat patterns: /game/{id}/ws is registered on the parent router.
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	r.With(s.requireGameToken()).Post("/game/{id}/action", s.handleAction)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Seed  *int64 `json:"seed"`  // fixed seed (testing); default from GAME_SEED
	Cols  int    `json:"cols"`  // reactor width, 0 = default
	Rows  int    `json:"rows"`  // reactor height, 0 = default
	Bonus string `json:"bonus"` // fixed bonus target by name
	Daily bool   `json:"daily"` // use the daily bonus target
}
type newGameRes struct {
	GameID   string        `json:"gameId"`
	Token    string        `json:"token"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	seed := s.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	var opts []game.Option
	if req.Cols > 0 || req.Rows > 0 {
		opts = append(opts, game.WithReactor(req.Cols, req.Rows))
	}
	switch {
	case req.Bonus != "":
		spec, err := s.cat.BonusMolecule(req.Bonus)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		opts = append(opts, game.WithBonus(spec))
	case req.Daily:
		spec, err := s.cat.DailyBonus(time.Now(), getEnv("DAILY_SALT", "local_dev_salt"))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		opts = append(opts, game.WithBonus(spec))
	}

	g, err := game.New(s.cat, seed, opts...)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := signGameToken(g.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setTokenCookie(w, tok, exp)

	log.Info().Str("gameId", g.ID).Int64("seed", seed).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Token: tok, Snapshot: g.Snapshot()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

type actionReq struct {
	Action game.Action `json:"action"`
}
type actionRes struct {
	Result   game.Result   `json:"result"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleAction applies one action, then pushes the new snapshot to every
// websocket watcher of the session.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	gid, _ := r.Context().Value(ctxGameKey{}).(string)
	g, err := s.store.Get(r.Context(), gid)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	res, err := g.Apply(req.Action)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	snap := g.Snapshot()
	if res.State == game.StateOver {
		log.Info().Str("gameId", g.ID).Int("completed", snap.Completed).Int("bonus", snap.BonusHits).Msg("game over")
	}
	s.feed.Publish(g.ID, snap)
	writeJSON(w, http.StatusOK, actionRes{Result: res, Snapshot: snap})
}

// ------------------------------ JWT & cookies ------------------------------

func jwtSecret() []byte { return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")) }

// signGameToken creates an HS256 JWT bound to one game with a configurable
// expiry (GAME_TOKEN_HOURS; default 24).
func signGameToken(gameID string) (string, time.Time, error) {
	hours := 24
	if v := os.Getenv("GAME_TOKEN_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	exp := time.Now().Add(time.Duration(hours) * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	ss, err := t.SignedString(jwtSecret())
	return ss, exp, err
}

// parseGameToken verifies tok and returns its game ID.
func parseGameToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", errBadToken
	}
	return gid, nil
}

// setTokenCookie writes the game token cookie with appropriate security attributes.
func setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     getEnv("COOKIE_NAME", "chon_token"),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or token cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "chon_token")); err == nil {
		return c.Value
	}
	return ""
}

// ctxGameKey is the context key type for the verified game ID.
type ctxGameKey struct{}

// requireGameToken enforces a valid game token whose gid matches {id}.
func (s *Server) requireGameToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			gid, err := parseGameToken(tok)
			if err != nil || gid != chi.URLParam(r, "id") {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxGameKey{}, gid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
