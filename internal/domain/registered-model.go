package domain

import "strings"

// Stage is a lifecycle label on a model version.
type Stage string

const (
	StageNone       Stage = "none"
	StageStaging    Stage = "staging"
	StageProduction Stage = "production"
	StageArchived   Stage = "archived"
)

// CanonicalStages is the fixed vocabulary of lifecycle stages a version
// can carry. Stage comparison is always case-insensitive.
var CanonicalStages = []Stage{StageNone, StageStaging, StageProduction, StageArchived}

func IsCanonicalStage(s string) bool {
	for _, stage := range CanonicalStages {
		if strings.EqualFold(s, string(stage)) {
			return true
		}
	}
	return false
}

// Document is a raw JSON-like descriptor as returned by a registry source.
// The registered-model descriptor is carried opaquely so fields this tool
// does not know about survive the round trip.
type Document map[string]interface{}

const (
	RegisteredModelKey = "registered_model"
	LatestVersionsKey  = "latest_versions"
)

// RegisteredModel returns the nested registered_model object of a
// descriptor, creating it when absent so callers can always write into it.
func (d Document) RegisteredModel() map[string]interface{} {
	if m, ok := d[RegisteredModelKey].(map[string]interface{}); ok {
		return m
	}
	m := map[string]interface{}{}
	d[RegisteredModelKey] = m
	return m
}
