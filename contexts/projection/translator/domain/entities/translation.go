// Package entities holds the translator's own small state: the last EMO
// version it produced for each memory identity, used to decide
// emo.created vs. emo.updated without re-reading the relational lens.
package entities

// VersionState is the translator's cached knowledge of one EMO identity.
type VersionState struct {
	EMOID      string
	WorldID    string
	Branch     string
	EMOVersion int
	Deleted    bool
}
