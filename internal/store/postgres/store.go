package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shrimpsizemoose/hrdesk/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(config *store.DBConfig) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB:        db,
		Converter: rebind,
		Classify:  classify,
	}}

	if err := s.ApplyMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations() error {
	return s.BaseStore.ApplyMigrations(nil)
}

// rebind turns ? placeholders into $1, $2, ...
func rebind(query string) string {
	out := query
	for i := 1; strings.Contains(out, "?"); i++ {
		out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
	}
	return out
}

func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Name() {
	case "unique_violation":
		return fmt.Errorf("%w: %w", store.ErrUniqueViolation, err)
	case "foreign_key_violation":
		return fmt.Errorf("%w: %w", store.ErrForeignKeyViolation, err)
	default:
		return err
	}
}
