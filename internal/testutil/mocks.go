package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"model-export-service/internal/domain"
)

// MockRegistrySource is a mock of domain.RegistrySource.
type MockRegistrySource struct {
	mock.Mock
}

func (m *MockRegistrySource) GetRegisteredModel(ctx context.Context, name string) (domain.Document, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *MockRegistrySource) ListModelVersions(ctx context.Context, name string) ([]domain.ModelVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModelVersion), args.Error(1)
}

// MockTrackingSource is a mock of domain.TrackingSource.
type MockTrackingSource struct {
	mock.Mock
}

func (m *MockTrackingSource) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockTrackingSource) GetExperiment(ctx context.Context, experimentID string) (*domain.Experiment, error) {
	args := m.Called(ctx, experimentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experiment), args.Error(1)
}

// MockArtifactSource is a mock of domain.ArtifactSource.
type MockArtifactSource struct {
	mock.Mock
}

func (m *MockArtifactSource) ListArtifacts(ctx context.Context, runID, path string) ([]domain.ArtifactFile, error) {
	args := m.Called(ctx, runID, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArtifactFile), args.Error(1)
}

func (m *MockArtifactSource) DownloadArtifact(ctx context.Context, runID, path string) ([]byte, error) {
	args := m.Called(ctx, runID, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockRunExporter is a mock of domain.RunExporter.
type MockRunExporter struct {
	mock.Mock
}

func (m *MockRunExporter) ExportRun(ctx context.Context, runID, outputPath string) error {
	args := m.Called(ctx, runID, outputPath)
	return args.Error(0)
}

// MockStore is a mock of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) MkdirAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockStore) WriteDocument(path string, doc interface{}) error {
	args := m.Called(path, doc)
	return args.Error(0)
}

func (m *MockStore) WriteFile(path string, data []byte) error {
	args := m.Called(path, data)
	return args.Error(0)
}
