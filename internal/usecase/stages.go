package usecase

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"model-export-service/internal/domain"
)

// NormalizeStages lower-cases a stage filter and warns on entries outside
// the canonical vocabulary. Unrecognized entries are kept: no real version
// carries such a stage, so they act as no-op filter entries.
func NormalizeStages(stages []string) []string {
	out := make([]string, 0, len(stages))
	for _, stage := range stages {
		stage = strings.ToLower(strings.TrimSpace(stage))
		if stage == "" {
			continue
		}
		if !domain.IsCanonicalStage(stage) {
			log.WithFields(log.Fields{
				"stage":     stage,
				"canonical": domain.CanonicalStages,
			}).Warn("stage is not a canonical lifecycle stage")
		}
		out = append(out, stage)
	}
	return out
}

// ParseStages splits a comma-delimited stage filter and normalizes it.
// An empty string means no filtering.
func ParseStages(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeStages(strings.Split(s, ","))
}
