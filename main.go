// main.go
//
// Entry point of the chon server.
// Loads .env, sets the log level, loads the atom/fragment/bonus catalog,
// opens and migrates the SQLite library database, then serves HTTP.
//
// Environment:
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/chon.db),
//   MIGRATIONS_DIR (sql), CHON_ATOMS_FILE, CHON_FRAGMENTS_FILE,
//   CHON_BONUS_FILE, GAME_SEED, JWT_SECRET, CLIENT_ORIGIN, DAILY_SALT,
//   MAX_MOLECULE_ATOMS (16).

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chon/internal/catalog"
	"github.com/robalobadob/chon/internal/httpserver"
	"github.com/robalobadob/chon/internal/library"
	"github.com/robalobadob/chon/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := catalog.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	cat := catalog.Default()
	log.Info().
		Int("atoms", len(cat.AtomSpecs())).
		Int("fragments", len(cat.Fragments())).
		Int("bonus", len(cat.Bonus())).
		Msg("catalog loaded")

	db, err := openDB(getEnv("DB_PATH", "./data/chon.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if _, err := migrate(db, os.DirFS(getEnv("MIGRATIONS_DIR", "sql"))); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv := httpserver.New(store.NewMemoryStore(), library.NewStore(db, cat.Atoms()), cat)
	defer srv.Close()

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting chon server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
