package application

import (
	"encoding/json"
	"fmt"

	domainerrors "mnemonicnexus/contexts/projection/translator/domain/errors"
)

// memoryUpsertPayload is the wire shape of memory.item.upserted payloads.
type memoryUpsertPayload struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Body       string         `json:"body"`
	MimeType   string         `json:"mime_type"`
	Tags       []string       `json:"tags"`
	SourceURI  string         `json:"source_uri"`
	URI        string         `json:"uri"`
	ParentID   string         `json:"parent_id"`
	Supersedes string         `json:"supersedes"`
	MergedFrom []string       `json:"merged_from"`
	Links      []any          `json:"links"`
	References []string       `json:"references"`
	Embedding  map[string]any `json:"embedding"`
}

func (p memoryUpsertPayload) contentOrBody() string {
	if p.Content != "" {
		return p.Content
	}
	return p.Body
}

func (p memoryUpsertPayload) mimeTypeOrDefault() string {
	if p.MimeType != "" {
		return p.MimeType
	}
	return "text/markdown"
}

func (p memoryUpsertPayload) sourceURI() string {
	if p.SourceURI != "" {
		return p.SourceURI
	}
	return p.URI
}

// memoryDeletePayload is the wire shape of memory.item.deleted payloads.
type memoryDeletePayload struct {
	ID string `json:"id"`
}

func decodeUpsertPayload(payload map[string]any) (memoryUpsertPayload, error) {
	var decoded memoryUpsertPayload
	if err := roundTrip(payload, &decoded); err != nil {
		return memoryUpsertPayload{}, err
	}
	if decoded.ID == "" {
		return memoryUpsertPayload{}, fmt.Errorf("%w: missing id", domainerrors.ErrMalformedPayload)
	}
	return decoded, nil
}

func decodeDeletePayload(payload map[string]any) (memoryDeletePayload, error) {
	var decoded memoryDeletePayload
	if err := roundTrip(payload, &decoded); err != nil {
		return memoryDeletePayload{}, err
	}
	if decoded.ID == "" {
		return memoryDeletePayload{}, fmt.Errorf("%w: missing id", domainerrors.ErrMalformedPayload)
	}
	return decoded, nil
}

func roundTrip(payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s", domainerrors.ErrMalformedPayload, err.Error())
	}
	return nil
}

func extractLinkRefs(links []any) []map[string]string {
	out := make([]map[string]string, 0, len(links))
	for _, l := range links {
		switch v := l.(type) {
		case string:
			out = append(out, map[string]string{"kind": "uri", "ref": v})
		case map[string]any:
			if uri, ok := v["uri"].(string); ok && uri != "" {
				out = append(out, map[string]string{"kind": "uri", "ref": uri})
			}
		}
	}
	return out
}
