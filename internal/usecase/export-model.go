package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-export-service/internal/domain"
	"model-export-service/internal/storage"
)

const manifestFile = "model.json"

// Options configures a ModelExporter for its lifetime.
type Options struct {
	// Stages restricts which versions are exported. Empty means all stages.
	Stages []string
	// ExportRun controls whether each version's backing run is exported.
	// Disabling it yields a registry-metadata-only export.
	ExportRun bool
}

// ModelExporter exports a registered model and the runs backing its
// versions into a portable directory tree: one subdirectory per run plus a
// model.json descriptor.
type ModelExporter struct {
	registry  domain.RegistrySource
	tracking  domain.TrackingSource
	runs      domain.RunExporter
	store     storage.Store
	stages    []string
	exportRun bool
}

func NewModelExporter(registry domain.RegistrySource, tracking domain.TrackingSource, runs domain.RunExporter, store storage.Store, opts Options) *ModelExporter {
	return &ModelExporter{
		registry:  registry,
		tracking:  tracking,
		runs:      runs,
		store:     store,
		stages:    NormalizeStages(opts.Stages),
		exportRun: opts.ExportRun,
	}
}

// ExportResult reports the outcome of one model export. Manifest lists
// every version attempted, not only successes.
type ExportResult struct {
	Model    string
	OK       bool
	Found    int
	Exported int
	Manifest []domain.ManifestEntry
}

// Export exports one registered model under outputDir. It never returns an
// error: any failure is logged and reported as OK=false, so a batch caller
// can continue with its remaining models.
func (e *ModelExporter) Export(ctx context.Context, outputDir, modelName string) ExportResult {
	res, err := e.exportModel(ctx, outputDir, modelName)
	if err != nil {
		log.WithFields(log.Fields{"model": modelName, "error": err}).Error("model export failed")
		res.OK = false
		return res
	}
	res.OK = true
	return res
}

// ExportModels exports several models, each under outputDir/<name>,
// continuing past individual failures.
func (e *ModelExporter) ExportModels(ctx context.Context, outputDir string, names []string) []ExportResult {
	results := make([]ExportResult, 0, len(names))
	for _, name := range names {
		results = append(results, e.Export(ctx, path.Join(outputDir, name), name))
	}
	return results
}

func (e *ModelExporter) exportModel(ctx context.Context, outputDir, modelName string) (ExportResult, error) {
	res := ExportResult{Model: modelName}

	if err := e.store.MkdirAll(outputDir); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	model, err := e.registry.GetRegisteredModel(ctx, modelName)
	if err != nil {
		return res, fmt.Errorf("get registered model %q: %w", modelName, err)
	}
	// The version list is rebuilt from scratch with only the versions
	// actually exported.
	registered := model.RegisteredModel()
	registered[domain.LatestVersionsKey] = []domain.EnrichedVersion{}

	versions, err := e.registry.ListModelVersions(ctx, modelName)
	if err != nil {
		return res, fmt.Errorf("list versions of %q: %w", modelName, err)
	}
	res.Found = len(versions)
	log.WithFields(log.Fields{"model": modelName, "versions": len(versions)}).Info("found model versions")

	enriched := make([]domain.EnrichedVersion, 0, len(versions))
	for _, vr := range versions {
		if len(e.stages) > 0 && !matchesStage(e.stages, vr.Stage) {
			continue
		}
		entry := domain.ManifestEntry{
			Version: vr.Version,
			Stage:   strings.ToLower(vr.Stage),
			RunID:   vr.RunID,
		}
		// Appended before the run export so the manifest records every
		// attempted version, failed ones included.
		res.Manifest = append(res.Manifest, entry)
		log.WithFields(log.Fields{
			"model":   modelName,
			"version": entry.Version,
			"stage":   entry.Stage,
			"run_id":  entry.RunID,
		}).Info("exporting model version")

		runPath := storage.LocalizePath(path.Join(outputDir, vr.RunID))
		ev, err := e.exportVersion(ctx, vr, runPath)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				log.WithFields(log.Fields{
					"model":   modelName,
					"version": vr.Version,
					"run_id":  vr.RunID,
				}).Warn("run for version does not exist, skipping")
			} else {
				log.WithFields(log.Fields{
					"model":   modelName,
					"version": vr.Version,
					"run_id":  vr.RunID,
					"error":   err,
				}).Error("exporting model version failed")
			}
			continue
		}
		enriched = append(enriched, *ev)
		res.Exported++
	}

	registered[domain.LatestVersionsKey] = enriched
	log.WithFields(log.Fields{
		"model":    modelName,
		"exported": res.Exported,
		"found":    res.Found,
	}).Info("exported model versions")

	if err := e.store.WriteDocument(path.Join(outputDir, manifestFile), model); err != nil {
		return res, fmt.Errorf("write %s: %w", manifestFile, err)
	}
	return res, nil
}

func (e *ModelExporter) exportVersion(ctx context.Context, vr domain.ModelVersion, runPath string) (*domain.EnrichedVersion, error) {
	if e.exportRun {
		if err := e.runs.ExportRun(ctx, vr.RunID, runPath); err != nil {
			return nil, err
		}
	}
	run, err := e.tracking.GetRun(ctx, vr.RunID)
	if err != nil {
		return nil, err
	}
	experiment, err := e.tracking.GetExperiment(ctx, run.Info.ExperimentID)
	if err != nil {
		return nil, err
	}
	return &domain.EnrichedVersion{
		ModelVersion:   vr,
		RunArtifactURI: run.Info.ArtifactURI,
		ExperimentName: experiment.Name,
	}, nil
}

func matchesStage(stages []string, stage string) bool {
	lower := strings.ToLower(stage)
	for _, s := range stages {
		if s == lower {
			return true
		}
	}
	return false
}
