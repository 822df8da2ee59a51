package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"model-export-service/internal/config"
	"model-export-service/internal/domain"
	"model-export-service/internal/registry"
	"model-export-service/internal/repository"
	"model-export-service/internal/runexport"
	"model-export-service/internal/storage"
	"model-export-service/internal/usecase"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	initLogger(cfg)

	client := registry.NewClient(cfg.Tracking.URL, cfg.Tracking.Timeout)

	var source domain.RegistrySource = client
	if cfg.Export.Backend == config.BackendPostgres {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("create db pool: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping registry db: %w", err)
		}
		log.Info("registry database connection established")
		source = repository.NewRegistrySource(pool)
	}

	outputDir := cmd.String("output-dir")
	store := storage.Resolve(outputDir)

	runExporter := runexport.New(client, client, store, runexport.Options{
		ExportMetadataTags:     cmd.Bool("export-metadata-tags"),
		NotebookFormats:        splitList(cmd.String("notebook-formats")),
		ExportNotebookRevision: cmd.Bool("export-notebook-revision"),
	})

	stages := cmd.String("stages")
	if stages == "" {
		stages = cfg.Export.Stages
	}
	exportRun := cmd.Bool("export-run") && cfg.Export.ExportRun
	exporter := usecase.NewModelExporter(source, client, runExporter, store, usecase.Options{
		Stages:    splitList(stages),
		ExportRun: exportRun,
	})

	if models := splitList(cmd.String("models")); len(models) > 0 {
		failed := 0
		for _, res := range exporter.ExportModels(ctx, outputDir, models) {
			if !res.OK {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d model exports failed", failed, len(models))
		}
		return nil
	}

	model := cmd.String("model")
	if model == "" {
		return fmt.Errorf("either --model or --models is required")
	}
	if res := exporter.Export(ctx, outputDir, model); !res.OK {
		return fmt.Errorf("export of model %q failed", model)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "model-export",
		Usage:  "Export registered models and the runs backing their versions to a portable directory tree",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Registered model name",
				Sources: cli.EnvVars("EXPORT_MODEL"),
			},
			&cli.StringFlag{
				Name:  "models",
				Usage: "Comma-delimited model names for a batch export (each lands under output-dir/<name>)",
			},
			&cli.StringFlag{
				Name:     "output-dir",
				Aliases:  []string{"o"},
				Usage:    "Output directory (local path or dbfs: URI)",
				Required: true,
				Sources:  cli.EnvVars("EXPORT_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  "stages",
				Usage: "Comma-delimited lifecycle stages to export (default: all stages)",
			},
			&cli.StringFlag{
				Name:  "notebook-formats",
				Usage: "Comma-delimited notebook formats to record for notebook-backed runs",
			},
			&cli.BoolFlag{
				Name:  "export-notebook-revision",
				Usage: "Record notebook revision ids in exported runs",
			},
			&cli.BoolFlag{
				Name:  "export-metadata-tags",
				Usage: "Keep system tags in exported runs",
			},
			&cli.BoolFlag{
				Name:  "export-run",
				Usage: "Export each version's backing run (disable for a registry-metadata-only export)",
				Value: true,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithField("error", err.Error()).Fatal("export failed")
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
