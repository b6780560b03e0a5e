package tokenstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/dropnshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dropnshare/internal/dbx"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
)

// SavedAtKey records when the current token was written.
const SavedAtKey = "auth_token_saved_at"

// SQLite stores the token in the local metadata table.
type SQLite struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time
}

func NewSQLite(db *sql.DB, log logging.Logger) *SQLite {
	return &SQLite{db: db, log: log, now: time.Now}
}

func (s *SQLite) Get(ctx context.Context) (string, bool) {
	token, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "token store read failed, continuing anonymous", "backend", BackendSQLite, "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *SQLite) Set(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if token == "" {
			if err := repo.Delete(ctx, TokenKey); err != nil {
				return err
			}
			return repo.Delete(ctx, SavedAtKey)
		}
		if err := repo.Set(ctx, TokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, SavedAtKey, s.now().UTC().Format(time.RFC3339))
	})
}

// SavedAt reports when the current token was stored.
func (s *SQLite) SavedAt(ctx context.Context) (time.Time, bool) {
	v, ok, err := metadata.NewSQLiteRepository(s.db).Get(ctx, SavedAtKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
