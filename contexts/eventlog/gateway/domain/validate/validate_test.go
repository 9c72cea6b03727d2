package validate

import "testing"

func validInput() Input {
	return Input{
		WorldID: "11111111-1111-1111-1111-111111111111",
		Branch:  "main",
		Kind:    "memory.created",
		Payload: map[string]any{"content": "hello"},
		AgentBy: "agent-1",
		Version: 1,
	}
}

func TestEnvelopeAcceptsValidInput(t *testing.T) {
	if err := Envelope(validInput()); err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}
}

func TestEnvelopeRejectsBadWorldID(t *testing.T) {
	in := validInput()
	in.WorldID = "not-a-uuid"
	if err := Envelope(in); err == nil {
		t.Fatalf("expected error for invalid world_id")
	}
}

func TestEnvelopeRejectsEmptyPayload(t *testing.T) {
	in := validInput()
	in.Payload = map[string]any{}
	if err := Envelope(in); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestEnvelopeRejectsUnsupportedVersion(t *testing.T) {
	in := validInput()
	in.Version = 3
	if err := Envelope(in); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}

func TestEnvelopeRejectsBadOccurredAt(t *testing.T) {
	in := validInput()
	in.OccurredAt = "2024-01-01 00:00:00"
	if err := Envelope(in); err == nil {
		t.Fatalf("expected error for non-RFC3339 occurred_at")
	}
}

func TestEnvelopeAcceptsUTCOccurredAt(t *testing.T) {
	in := validInput()
	in.OccurredAt = "2024-01-01T00:00:00Z"
	if err := Envelope(in); err != nil {
		t.Fatalf("expected valid UTC timestamp to pass, got %v", err)
	}
}

func TestBranchRejectsInvalidCharacters(t *testing.T) {
	if err := Branch("feature/x"); err == nil {
		t.Fatalf("expected error for slash in branch name")
	}
}

func TestKindRequiresCategoryDotAction(t *testing.T) {
	cases := []struct {
		kind string
		ok   bool
	}{
		{"memory.created", true},
		{"memory", false},
		{".created", false},
		{"memory.", false},
	}
	for _, c := range cases {
		err := Kind(c.kind)
		if c.ok && err != nil {
			t.Errorf("Kind(%q): expected ok, got %v", c.kind, err)
		}
		if !c.ok && err == nil {
			t.Errorf("Kind(%q): expected error, got nil", c.kind)
		}
	}
}

func TestIdempotencyKeyRejectsBlankWhenPresent(t *testing.T) {
	if _, err := IdempotencyKey("  ", true); err == nil {
		t.Fatalf("expected error for blank idempotency key present")
	}
	if v, err := IdempotencyKey("", false); err != nil || v != "" {
		t.Fatalf("expected no error and empty value when header absent, got %q, %v", v, err)
	}
}

func TestCorrelationIDValidatesUUIDWhenPresent(t *testing.T) {
	if _, err := CorrelationID("not-a-uuid"); err == nil {
		t.Fatalf("expected error for invalid correlation id")
	}
	if v, err := CorrelationID(""); err != nil || v != "" {
		t.Fatalf("expected empty passthrough for absent header, got %q, %v", v, err)
	}
}
