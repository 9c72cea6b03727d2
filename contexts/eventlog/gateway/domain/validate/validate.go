// Package validate holds the envelope and header validation rules described
// in spec section 3.1 and the gateway's per-append algorithm in section 4.2.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	branchPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	uuidPattern    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func isValidUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// Input is the raw, client-supplied envelope fields prior to enrichment.
type Input struct {
	WorldID      string
	Branch       string
	Kind         string
	Payload      map[string]any
	AgentBy      string
	OccurredAt   string
	CausationID  string
	Version      int
}

// Envelope validates the envelope body. It returns the first violation found.
func Envelope(in Input) error {
	if !isValidUUID(in.WorldID) {
		return fmt.Errorf("world_id must be a valid uuid")
	}
	if err := Branch(in.Branch); err != nil {
		return err
	}
	if err := Kind(in.Kind); err != nil {
		return err
	}
	if len(in.Payload) == 0 {
		return fmt.Errorf("payload must be a non-empty mapping")
	}
	if strings.TrimSpace(in.AgentBy) == "" {
		return fmt.Errorf("by.agent is required")
	}
	if in.OccurredAt != "" {
		if _, err := parseRFC3339UTC(in.OccurredAt); err != nil {
			return err
		}
	}
	if in.CausationID != "" && !isValidUUID(in.CausationID) {
		return fmt.Errorf("causation_id must be a valid uuid")
	}
	if in.Version != 1 && in.Version != 2 {
		return fmt.Errorf("unsupported envelope version: %d", in.Version)
	}
	return nil
}

// Branch validates the branch name: alphanumeric plus _/-, at most 100 chars.
func Branch(branch string) error {
	if branch == "" || len(branch) > 100 {
		return fmt.Errorf("branch must be 1-100 characters")
	}
	if !branchPattern.MatchString(branch) {
		return fmt.Errorf("branch must be alphanumeric plus '_' or '-'")
	}
	return nil
}

// Kind validates "category.action" shape with both parts non-empty.
func Kind(kind string) error {
	parts := strings.SplitN(kind, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("kind must be of the form category.action")
	}
	return nil
}

// CorrelationID validates an optional correlation id header. An empty
// header is returned as-is — the application layer generates one via its
// IDGenerator, since minting an id is not this package's concern.
func CorrelationID(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	if !isValidUUID(header) {
		return "", fmt.Errorf("correlation-id must be a valid uuid")
	}
	return header, nil
}

// IdempotencyKey validates the optional idempotency-key header: absent is
// fine, present-but-empty is a validation error.
func IdempotencyKey(header string, present bool) (string, error) {
	if !present {
		return "", nil
	}
	if strings.TrimSpace(header) == "" {
		return "", fmt.Errorf("idempotency-key header must not be empty when present")
	}
	return header, nil
}

func parseRFC3339UTC(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("occurred_at must be RFC3339 UTC: %w", err)
	}
	if t.Location() != time.UTC && t.Format("Z07:00") != "Z" {
		// time.Parse accepts any offset; require literal UTC designator.
		if !strings.HasSuffix(value, "Z") && !strings.HasSuffix(value, "+00:00") {
			return time.Time{}, fmt.Errorf("occurred_at must be UTC (end with Z or +00:00)")
		}
	}
	return t.UTC(), nil
}
