package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-export-service/internal/domain"
)

type registryRepo struct {
	pool *pgxpool.Pool
}

// NewRegistrySource returns a domain.RegistrySource that reads the
// registry's backing database directly. Used for exporting from a registry
// whose tracking server is no longer reachable but whose database is.
func NewRegistrySource(pool *pgxpool.Pool) domain.RegistrySource {
	return &registryRepo{pool: pool}
}

func (r *registryRepo) GetRegisteredModel(ctx context.Context, name string) (domain.Document, error) {
	query := `
		SELECT name, description, creation_time, last_updated_time
		FROM registered_models
		WHERE name = $1
	`

	var (
		modelName   string
		description *string
		createdAt   *int64
		updatedAt   *int64
	)
	err := r.pool.QueryRow(ctx, query, name).Scan(&modelName, &description, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get registered model: %w", err)
	}

	registered := map[string]interface{}{"name": modelName}
	if description != nil {
		registered["description"] = *description
	}
	if createdAt != nil {
		registered["creation_timestamp"] = *createdAt
	}
	if updatedAt != nil {
		registered["last_updated_timestamp"] = *updatedAt
	}
	return domain.Document{domain.RegisteredModelKey: registered}, nil
}

func (r *registryRepo) ListModelVersions(ctx context.Context, name string) ([]domain.ModelVersion, error) {
	query := `
		SELECT name, version, current_stage, run_id, source, status
		FROM model_versions
		WHERE name = $1
		ORDER BY version
	`

	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.ModelVersion
	for rows.Next() {
		var (
			v              domain.ModelVersion
			version        int64
			stage, runID   *string
			source, status *string
		)
		if err := rows.Scan(&v.Name, &version, &stage, &runID, &source, &status); err != nil {
			return nil, fmt.Errorf("scan model version row: %w", err)
		}
		v.Version = strconv.FormatInt(version, 10)
		if stage != nil {
			v.Stage = *stage
		}
		if runID != nil {
			v.RunID = *runID
		}
		if source != nil {
			v.Source = *source
		}
		if status != nil {
			v.Status = *status
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model version rows: %w", err)
	}

	return versions, nil
}
