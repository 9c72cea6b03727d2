package application

import (
	"encoding/json"
	"fmt"

	domainerrors "mnemonicnexus/contexts/projection/relational/domain/errors"
)

// emoPayload is the wire shape of emo.* event payloads, decoded from the
// envelope's generic map[string]any.
type emoPayload struct {
	EMOID          string          `json:"emo_id"`
	EMOType        string          `json:"emo_type"`
	EMOVersion     int             `json:"emo_version"`
	TenantID       string          `json:"tenant_id"`
	Content        string          `json:"content"`
	Tags           []string        `json:"tags"`
	MimeType       string          `json:"mime_type"`
	Source         sourcePayload   `json:"source"`
	Parents        []parentPayload `json:"parents"`
	Links          []linkPayload   `json:"links"`
	DeletionReason string          `json:"deletion_reason"`
}

type sourcePayload struct {
	Kind string `json:"kind"`
	URI  string `json:"uri"`
}

type parentPayload struct {
	EMOID string `json:"emo_id"`
	Rel   string `json:"rel"`
}

type linkPayload struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

func decodePayload(payload map[string]any) (emoPayload, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return emoPayload{}, fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	var decoded emoPayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return emoPayload{}, fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	if decoded.EMOID == "" {
		return emoPayload{}, fmt.Errorf("%w: missing emo_id", domainerrors.ErrMalformedPayload)
	}
	if decoded.MimeType == "" {
		decoded.MimeType = "text/markdown"
	}
	return decoded, nil
}
