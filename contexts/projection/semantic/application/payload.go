package application

import (
	"encoding/json"
	"fmt"

	domainerrors "mnemonicnexus/contexts/projection/semantic/domain/errors"
)

// emoPayload is the wire shape of emo.* event payloads the semantic lens
// cares about, decoded from the envelope's generic map[string]any.
type emoPayload struct {
	EMOID          string `json:"emo_id"`
	EMOType        string `json:"emo_type"`
	EMOVersion     int    `json:"emo_version"`
	Content        string `json:"content"`
	DeletionReason string `json:"deletion_reason"`
}

// embedPayload is the wire shape of memory.embedding_available marker
// payloads, which the translator emits for memory.embed.generated.
type embedPayload struct {
	EMOID string `json:"emo_id"`
	Model string `json:"model"`
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
	return decoded, nil
}

func decodeEmbedPayload(payload map[string]any) (embedPayload, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return embedPayload{}, fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	var decoded embedPayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return embedPayload{}, fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	if decoded.EMOID == "" {
		return embedPayload{}, fmt.Errorf("%w: missing emo_id", domainerrors.ErrMalformedPayload)
	}
	return decoded, nil
}
