package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStages_Lowercases(t *testing.T) {
	got := NormalizeStages([]string{"Production", " STAGING "})
	assert.Equal(t, []string{"production", "staging"}, got)
}

func TestNormalizeStages_PreservesOrder(t *testing.T) {
	got := NormalizeStages([]string{"archived", "none", "production"})
	assert.Equal(t, []string{"archived", "none", "production"}, got)
}

func TestNormalizeStages_KeepsUnrecognizedEntries(t *testing.T) {
	// Non-canonical entries warn but stay in the filter; no real version
	// carries such a stage, so they match nothing.
	got := NormalizeStages([]string{"prod", "staging"})
	assert.Equal(t, []string{"prod", "staging"}, got)
}

func TestNormalizeStages_Empty(t *testing.T) {
	assert.Empty(t, NormalizeStages(nil))
	assert.Empty(t, NormalizeStages([]string{}))
}

func TestParseStages_CommaDelimited(t *testing.T) {
	got := ParseStages("Production,Archived")
	assert.Equal(t, []string{"production", "archived"}, got)
}

func TestParseStages_Empty(t *testing.T) {
	assert.Nil(t, ParseStages(""))
	assert.Nil(t, ParseStages("   "))
}
