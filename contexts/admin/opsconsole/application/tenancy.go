package application

import (
	"context"
	"log/slog"

	"mnemonicnexus/contexts/admin/opsconsole/domain/entities"
	"mnemonicnexus/contexts/admin/opsconsole/ports"
)

// TenancyService runs the tenancy isolation self-test: write a probe row
// under world A's session context, then attempt to read it back under
// world B's, exactly as TenancyValidator.test_isolation did.
type TenancyService struct {
	Probe  ports.TenancyProbe
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// SelfTest writes under worldA, reads under worldB, and reports whether the
// cross-read returned nothing — "isolation_working" in the original.
func (s TenancyService) SelfTest(ctx context.Context, worldA, worldB string) entities.TenancyTestResult {
	logger := ResolveLogger(s.Logger)
	probeID := s.IDGen.NewID()

	if err := s.Probe.WriteProbe(ctx, worldA, probeID); err != nil {
		return entities.TenancyTestResult{Error: err.Error()}
	}
	defer func() {
		if err := s.Probe.DeleteProbe(ctx, worldA, probeID); err != nil {
			logger.Error("tenancy probe cleanup failed",
				"event", "admin_tenancy_cleanup_failed",
				"module", "admin/opsconsole",
				"layer", "application",
				"probe_id", probeID,
				"error", err.Error(),
			)
		}
	}()

	found, err := s.Probe.ReadProbe(ctx, worldB, probeID)
	if err != nil {
		return entities.TenancyTestResult{WorldAWriteOK: true, Error: err.Error()}
	}

	result := entities.TenancyTestResult{
		WorldAWriteOK:     true,
		WorldBCrossAccess: found,
		IsolationWorking:  !found,
	}
	logger.Info("tenancy self-test completed",
		"event", "admin_tenancy_selftest",
		"module", "admin/opsconsole",
		"layer", "application",
		"world_a", worldA,
		"world_b", worldB,
		"isolation_working", result.IsolationWorking,
	)
	return result
}
