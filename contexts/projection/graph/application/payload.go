package application

import (
	"encoding/json"
	"fmt"

	domainerrors "mnemonicnexus/contexts/projection/graph/domain/errors"
)

type emoPayload struct {
	EMOID      string          `json:"emo_id"`
	EMOType    string          `json:"emo_type"`
	EMOVersion int             `json:"emo_version"`
	Parents    []parentPayload `json:"parents"`
	Links      []linkPayload   `json:"links"`
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
	return decoded, nil
}
