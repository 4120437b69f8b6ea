package search

import (
	"testing"

	"calorie-tracker/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_Tiers(t *testing.T) {
	got := Rank([]domain.FoodRecord{
		food("Pineapple", domain.ProvenanceRegional),
		food("apple pie", domain.ProvenanceShared),
		food("Apple", domain.ProvenanceRegional),
		food("Baked Apple", domain.ProvenanceUserCustom),
		food("Apple Crumble", domain.ProvenanceShared),
	}, "Apple", 10)

	assert.Equal(t, []string{"Apple", "Apple Crumble", "apple pie", "Baked Apple", "Pineapple"}, names(got))
}

func TestRank_DedupKeepsHighestPriority(t *testing.T) {
	got := Rank([]domain.FoodRecord{
		food("Apple", domain.ProvenanceRegional),
		food("APPLE", domain.ProvenanceShared),
		food("apple", domain.ProvenanceUserCustom),
		food("Apple ", domain.ProvenanceRecent),
	}, "apple", 10)

	require.Len(t, got, 1)
	assert.Equal(t, domain.ProvenanceUserCustom, got[0].Provenance)
	assert.Equal(t, "apple", got[0].Name)
}

func TestRank_LimitAndEmptyNames(t *testing.T) {
	got := Rank([]domain.FoodRecord{
		food("", domain.ProvenanceShared),
		food("Apple B", domain.ProvenanceShared),
		food("Apple A", domain.ProvenanceShared),
		food("Apple C", domain.ProvenanceShared),
	}, "apple", 2)

	assert.Equal(t, []string{"Apple A", "Apple B"}, names(got))
}
