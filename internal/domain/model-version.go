package domain

// ModelVersion is one immutable version of a registered model, linked to
// the run that produced it. Snapshots come from a RegistrySource and are
// never written back.
type ModelVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Stage   string `json:"current_stage"`
	RunID   string `json:"run_id"`
	Source  string `json:"source,omitempty"`
	Status  string `json:"status,omitempty"`
}

// EnrichedVersion is a ModelVersion augmented with the backing run's
// artifact URI and the owning experiment's name. Built only after the run
// export and both metadata lookups succeed.
type EnrichedVersion struct {
	ModelVersion
	RunArtifactURI string `json:"_run_artifact_uri"`
	ExperimentName string `json:"_experiment_name"`
}

// ManifestEntry records one attempted version export. Entries are appended
// as soon as a version passes the stage filter, before the run export runs,
// so the manifest covers failures as well as successes. Stage is stored
// lower-cased.
type ManifestEntry struct {
	Version string `json:"version"`
	Stage   string `json:"stage"`
	RunID   string `json:"run_id"`
}
