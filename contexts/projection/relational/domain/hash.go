package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"mnemonicnexus/contexts/projection/relational/domain/entities"
)

// DeterminismHash is the replay-validation hash from the EMO model: SHA-256
// over emo_id, emo_version, world_id, branch, content, sorted/comma-joined
// tags, sorted/comma-joined linked emo ids, and updated_at as epoch seconds
// — in that exact order.
func DeterminismHash(emo entities.EMO) string {
	tags := append([]string(nil), emo.Tags...)
	sort.Strings(tags)

	linkedIDs := make([]string, 0, len(emo.Links))
	for _, link := range emo.Links {
		if link.Kind == "emo" {
			linkedIDs = append(linkedIDs, link.Ref)
		}
	}
	sort.Strings(linkedIDs)

	material := strings.Join([]string{
		emo.EMOID,
		fmt.Sprintf("%d", emo.EMOVersion),
		emo.WorldID,
		emo.Branch,
		emo.Content,
		strings.Join(tags, ","),
		strings.Join(linkedIDs, ","),
		fmt.Sprintf("%d", emo.UpdatedAt.Unix()),
	}, "\x00")

	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// ContentHash is the per-version content hash recorded in emo_history.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
