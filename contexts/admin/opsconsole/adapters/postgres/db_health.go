package postgres

import (
	"context"

	"mnemonicnexus/internal/platform/db"
)

// DatabaseHealthSource reports liveness and installed extensions, grounded
// in admin.py's get_system_health: SELECT version() plus a pg_extension
// lookup for vector/age.
type DatabaseHealthSource struct {
	db *db.Postgres
}

func NewDatabaseHealthSource(pg *db.Postgres) *DatabaseHealthSource {
	return &DatabaseHealthSource{db: pg}
}

func (s *DatabaseHealthSource) Ping(ctx context.Context) (string, error) {
	var version string
	if err := s.db.DB.WithContext(ctx).Raw("SELECT version()").Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}

func (s *DatabaseHealthSource) Extensions(ctx context.Context, names []string) (map[string]bool, error) {
	var installed []string
	if err := s.db.DB.WithContext(ctx).
		Raw("SELECT extname FROM pg_extension WHERE extname IN ?", names).
		Scan(&installed).Error; err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(installed))
	for _, name := range installed {
		present[name] = true
	}
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[name] = present[name]
	}
	return out, nil
}
