package application

import (
	"context"
	"fmt"
	"log/slog"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	domainerrors "mnemonicnexus/contexts/admin/opsconsole/domain/errors"
	"mnemonicnexus/contexts/admin/opsconsole/ports"
)

// KnownMaterializedViews is the admin surface's fixed allowlist, renamed
// from the original's ["lens_rel.mv_note_enriched"] for the EMO domain, kept
// as a literal list to rule out SQL injection through a view-name parameter.
var KnownMaterializedViews = []string{"lens_rel.mv_emo_enriched"}

func isKnownView(name string) bool {
	for _, v := range KnownMaterializedViews {
		if v == name {
			return true
		}
	}
	return false
}

// RefreshViewCommand targets one materialized view, optionally scoped to a
// tenant for a cheaper partial refresh.
type RefreshViewCommand struct {
	ViewName string
	WorldID  string
	Branch   string
}

// ViewService refreshes relational-lens materialized views on request.
type ViewService struct {
	Refresher ports.ViewRefresher
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (s ViewService) Refresh(ctx context.Context, cmd RefreshViewCommand) (entities.ViewRefreshResult, error) {
	if !isKnownView(cmd.ViewName) {
		return entities.ViewRefreshResult{}, fmt.Errorf("%w: %s", domainerrors.ErrUnknownMaterializedView, cmd.ViewName)
	}

	size, err := s.Refresher.Refresh(ctx, cmd.ViewName, cmd.WorldID, cmd.Branch)
	if err != nil {
		return entities.ViewRefreshResult{}, err
	}

	ResolveLogger(s.Logger).Info("materialized view refreshed",
		"event", "admin_mv_refreshed",
		"module", "admin/opsconsole",
		"layer", "application",
		"view", cmd.ViewName,
		"world_id", cmd.WorldID,
	)
	return entities.ViewRefreshResult{
		ViewName:    cmd.ViewName,
		SizePretty:  size,
		RefreshedAt: s.Clock.Now(),
	}, nil
}
