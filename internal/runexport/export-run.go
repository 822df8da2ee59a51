package runexport

import (
	"context"
	"fmt"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"model-export-service/internal/domain"
	"model-export-service/internal/storage"
)

const (
	runFile      = "run.json"
	artifactsDir = "artifacts"

	systemTagPrefix = "mlflow."
	notebookPathTag = "mlflow.databricks.notebookPath"
	notebookRevTag  = "mlflow.databricks.notebookRevisionID"
)

// Options configures an Exporter for its lifetime.
type Options struct {
	// ExportMetadataTags keeps system (mlflow.-prefixed) tags in the
	// exported document instead of dropping them.
	ExportMetadataTags bool
	// NotebookFormats lists the notebook renderings a downstream importer
	// should request for notebook-backed runs.
	NotebookFormats []string
	// ExportNotebookRevision records the notebook revision id next to the
	// notebook path.
	ExportNotebookRevision bool
}

// Exporter writes one run's full data (params, metrics, tags, artifacts)
// under an output path.
type Exporter struct {
	tracking  domain.TrackingSource
	artifacts domain.ArtifactSource
	store     storage.Store
	opts      Options
}

func New(tracking domain.TrackingSource, artifacts domain.ArtifactSource, store storage.Store, opts Options) *Exporter {
	return &Exporter{tracking: tracking, artifacts: artifacts, store: store, opts: opts}
}

// ExportRun exports one run under outputPath: run.json next to an
// artifacts/ tree. Fails with domain.ErrRunNotFound when the run is gone.
func (e *Exporter) ExportRun(ctx context.Context, runID, outputPath string) error {
	run, err := e.tracking.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	if err := e.store.MkdirAll(path.Join(outputPath, artifactsDir)); err != nil {
		return err
	}
	if err := e.copyArtifacts(ctx, runID, "", outputPath); err != nil {
		return err
	}

	tags := run.Tags
	if !e.opts.ExportMetadataTags {
		tags = stripSystemTags(tags)
	}
	doc := domain.Document{
		"info":    run.Info,
		"params":  run.Params,
		"metrics": run.Metrics,
		"tags":    tags,
	}
	if nb := e.notebookDescriptor(run.Tags); nb != nil {
		doc["notebook"] = nb
	}
	return e.store.WriteDocument(path.Join(outputPath, runFile), doc)
}

func (e *Exporter) copyArtifacts(ctx context.Context, runID, artifactPath, outputPath string) error {
	files, err := e.artifacts.ListArtifacts(ctx, runID, artifactPath)
	if err != nil {
		return fmt.Errorf("list artifacts of run %s: %w", runID, err)
	}
	for _, f := range files {
		if f.IsDir {
			if err := e.copyArtifacts(ctx, runID, f.Path, outputPath); err != nil {
				return err
			}
			continue
		}
		data, err := e.artifacts.DownloadArtifact(ctx, runID, f.Path)
		if err != nil {
			return fmt.Errorf("download artifact %s of run %s: %w", f.Path, runID, err)
		}
		if err := e.store.WriteFile(path.Join(outputPath, artifactsDir, f.Path), data); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"run_id":   runID,
			"artifact": f.Path,
			"bytes":    len(data),
		}).Debug("exported artifact")
	}
	return nil
}

// notebookDescriptor records which notebook renderings were requested for a
// notebook-backed run, so a downstream importer knows what to fetch. There
// is no workspace API to call from here.
func (e *Exporter) notebookDescriptor(tags map[string]string) map[string]interface{} {
	if len(e.opts.NotebookFormats) == 0 {
		return nil
	}
	nbPath, ok := tags[notebookPathTag]
	if !ok {
		return nil
	}
	nb := map[string]interface{}{
		"path":    nbPath,
		"formats": e.opts.NotebookFormats,
	}
	if e.opts.ExportNotebookRevision {
		if rev, ok := tags[notebookRevTag]; ok {
			nb["revision_id"] = rev
		}
	}
	return nb
}

func stripSystemTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if strings.HasPrefix(k, systemTagPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}
