package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mnemonicnexus/internal/platform/db"
)

// ViewRefresher refreshes a materialized view by name. The caller (the
// application layer's ViewService) has already checked viewName against a
// fixed allowlist; this adapter re-validates the shape defensively since it
// is the last line of defense against building a query from user input.
type ViewRefresher struct {
	db *db.Postgres
}

func NewViewRefresher(pg *db.Postgres) *ViewRefresher { return &ViewRefresher{db: pg} }

func (r *ViewRefresher) Refresh(ctx context.Context, viewName, worldID, branch string) (string, error) {
	schema, name, err := splitQualifiedName(viewName)
	if err != nil {
		return "", err
	}

	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if worldID != "" {
			if err := db.SetWorldContext(ctx, tx, worldID); err != nil {
				return err
			}
		}
		return tx.Exec(fmt.Sprintf("REFRESH MATERIALIZED VIEW CONCURRENTLY %s.%s", schema, name)).Error
	})
	if err != nil {
		return "", err
	}

	var sizePretty string
	err = r.db.DB.WithContext(ctx).Raw(`
		SELECT pg_size_pretty(pg_total_relation_size(oid))
		FROM pg_matviews
		WHERE schemaname = ? AND matviewname = ?
	`, schema, name).Scan(&sizePretty).Error
	return sizePretty, err
}

// splitQualifiedName rejects anything but a simple schema.view identifier
// pair, since viewName ends up interpolated into a SQL statement that
// cannot be parameterized (REFRESH MATERIALIZED VIEW takes no placeholder).
func splitQualifiedName(qualified string) (schema, name string, err error) {
	parts := strings.SplitN(qualified, ".", 2)
	if len(parts) != 2 || !isSimpleIdent(parts[0]) || !isSimpleIdent(parts[1]) {
		return "", "", fmt.Errorf("invalid materialized view name: %q", qualified)
	}
	return parts[0], parts[1], nil
}

func isSimpleIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
