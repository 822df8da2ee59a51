package domain

import "context"

// RegistrySource returns registered-model metadata from a model registry.
type RegistrySource interface {
	// GetRegisteredModel returns the raw registered-model descriptor.
	// Fails with ErrModelNotFound for an unknown name.
	GetRegisteredModel(ctx context.Context, name string) (Document, error)
	// ListModelVersions returns every version of the model, in registry order.
	ListModelVersions(ctx context.Context, name string) ([]ModelVersion, error)
}

// TrackingSource returns run and experiment descriptors from a tracking
// server. Lookups for deleted entities fail with ErrRunNotFound or
// ErrExperimentNotFound so callers can branch on the error kind.
type TrackingSource interface {
	GetRun(ctx context.Context, runID string) (*Run, error)
	GetExperiment(ctx context.Context, experimentID string) (*Experiment, error)
}

// ArtifactSource lists and downloads a run's artifacts.
type ArtifactSource interface {
	ListArtifacts(ctx context.Context, runID, path string) ([]ArtifactFile, error)
	DownloadArtifact(ctx context.Context, runID, path string) ([]byte, error)
}

// RunExporter writes one run's full data (params, metrics, tags, artifacts)
// under outputPath. May fail per run; ErrRunNotFound is distinguishable.
type RunExporter interface {
	ExportRun(ctx context.Context, runID, outputPath string) error
}
