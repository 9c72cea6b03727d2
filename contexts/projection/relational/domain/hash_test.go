package domain

import (
	"testing"
	"time"

	"mnemonicnexus/contexts/projection/relational/domain/entities"
)

func sampleEMO() entities.EMO {
	return entities.EMO{
		EMOID:      "emo-1",
		EMOVersion: 2,
		WorldID:    "world-1",
		Branch:     "main",
		Content:    "hello world",
		Tags:       []string{"b", "a"},
		Links: []entities.Link{
			{Kind: "emo", Ref: "emo-3"},
			{Kind: "emo", Ref: "emo-2"},
			{Kind: "uri", Ref: "https://example.com"},
		},
		UpdatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestDeterminismHashIsStableAcrossTagAndLinkOrder(t *testing.T) {
	a := sampleEMO()
	b := sampleEMO()
	b.Tags = []string{"a", "b"}
	b.Links = []entities.Link{
		{Kind: "uri", Ref: "https://example.com"},
		{Kind: "emo", Ref: "emo-2"},
		{Kind: "emo", Ref: "emo-3"},
	}

	if DeterminismHash(a) != DeterminismHash(b) {
		t.Fatalf("expected hash to be invariant to tag/link ordering")
	}
}

func TestDeterminismHashChangesWithContent(t *testing.T) {
	a := sampleEMO()
	b := sampleEMO()
	b.Content = "goodbye world"

	if DeterminismHash(a) == DeterminismHash(b) {
		t.Fatalf("expected different content to produce different hash")
	}
}

func TestDeterminismHashIgnoresNonEMOLinks(t *testing.T) {
	a := sampleEMO()
	b := sampleEMO()
	b.Links = append(b.Links, entities.Link{Kind: "uri", Ref: "https://another.example.com"})

	if DeterminismHash(a) != DeterminismHash(b) {
		t.Fatalf("expected non-emo links to not affect the hash")
	}
}

func TestContentHashIsDeterministic(t *testing.T) {
	if ContentHash("same") != ContentHash("same") {
		t.Fatalf("expected identical content to hash identically")
	}
	if ContentHash("same") == ContentHash("different") {
		t.Fatalf("expected different content to hash differently")
	}
}
