package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/hrdesk/internal/store"
	"github.com/shrimpsizemoose/hrdesk/internal/store/postgres"
	"github.com/shrimpsizemoose/hrdesk/internal/store/sqlite"
)

func DetectDBType(dsn string) store.DatabaseType {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return store.DBTypePostgres
	}
	return store.DBTypeSQLite
}

func NewStore(dsn string) (store.HRStore, error) {
	config := &store.DBConfig{DSN: dsn, Type: DetectDBType(dsn)}

	switch config.Type {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(config)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(config)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
