package application

import "mnemonicnexus/internal/shared/events"

// SnapshotHash canonicalizes and hashes a projector's snapshot value so two
// projectors that replayed the same event sequence against empty initial
// state produce byte-identical hashes.
func SnapshotHash(snapshot any) (string, error) {
	return events.HashCanonical(snapshot)
}
