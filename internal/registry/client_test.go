package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-export-service/internal/domain"
)

func notFoundBody(msg string) gin.H {
	return gin.H{"error_code": "RESOURCE_DOES_NOT_EXIST", "message": msg}
}

// newFakeTrackingServer serves the subset of the tracking REST surface the
// client consumes, with one model, one run and one experiment.
func newFakeTrackingServer() *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/2.0/mlflow")

	api.GET("/registered-models/get", func(c *gin.Context) {
		if c.Query("name") != "mymodel" {
			c.JSON(http.StatusNotFound, notFoundBody("Registered model does not exist"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"registered_model": gin.H{
				"name":        "mymodel",
				"description": "a model",
			},
		})
	})

	api.GET("/model-versions/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"model_versions": []gin.H{
				{"name": "mymodel", "version": "1", "current_stage": "Production", "run_id": "runA"},
				{"name": "mymodel", "version": "2", "current_stage": "Archived", "run_id": "runB"},
			},
		})
	})

	api.GET("/runs/get", func(c *gin.Context) {
		if c.Query("run_id") != "runA" {
			c.JSON(http.StatusNotFound, notFoundBody("Run does not exist"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"run": gin.H{
				"info": gin.H{
					"run_id":        "runA",
					"experiment_id": "e1",
					"status":        "FINISHED",
					"artifact_uri":  "s3://bucket/runA/artifacts",
				},
				"data": gin.H{
					"params":  []gin.H{{"key": "lr", "value": "0.01"}},
					"metrics": []gin.H{{"key": "rmse", "value": 0.25}},
					"tags":    []gin.H{{"key": "mlflow.user", "value": "alice"}},
				},
			},
		})
	})

	api.GET("/experiments/get", func(c *gin.Context) {
		if c.Query("experiment_id") != "e1" {
			c.JSON(http.StatusNotFound, notFoundBody("Experiment does not exist"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"experiment": gin.H{"experiment_id": "e1", "name": "exp-one"},
		})
	})

	api.GET("/artifacts/list", func(c *gin.Context) {
		if c.Query("path") == "" {
			c.JSON(http.StatusOK, gin.H{
				"files": []gin.H{
					{"path": "model", "is_dir": true},
					{"path": "metrics.csv", "is_dir": false, "file_size": 42},
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"files": []gin.H{
				{"path": "model/weights.bin", "is_dir": false, "file_size": 1024},
			},
		})
	})

	r.GET("/get-artifact", func(c *gin.Context) {
		c.String(http.StatusOK, "artifact-bytes")
	})

	return httptest.NewServer(r)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := newFakeTrackingServer()
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestClient_GetRegisteredModel(t *testing.T) {
	c := newTestClient(t)

	doc, err := c.GetRegisteredModel(context.Background(), "mymodel")
	require.NoError(t, err)
	assert.Equal(t, "mymodel", doc.RegisteredModel()["name"])
}

func TestClient_GetRegisteredModel_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetRegisteredModel(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestClient_ListModelVersions(t *testing.T) {
	c := newTestClient(t)

	versions, err := c.ListModelVersions(context.Background(), "mymodel")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "1", versions[0].Version)
	assert.Equal(t, "Production", versions[0].Stage)
	assert.Equal(t, "runA", versions[0].RunID)
}

func TestClient_GetRun_FlattensData(t *testing.T) {
	c := newTestClient(t)

	run, err := c.GetRun(context.Background(), "runA")
	require.NoError(t, err)
	assert.Equal(t, "e1", run.Info.ExperimentID)
	assert.Equal(t, "s3://bucket/runA/artifacts", run.Info.ArtifactURI)
	assert.Equal(t, map[string]string{"lr": "0.01"}, run.Params)
	assert.Equal(t, map[string]float64{"rmse": 0.25}, run.Metrics)
	assert.Equal(t, map[string]string{"mlflow.user": "alice"}, run.Tags)
}

func TestClient_GetRun_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetRun(context.Background(), "deleted-run")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestClient_GetExperiment(t *testing.T) {
	c := newTestClient(t)

	exp, err := c.GetExperiment(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "exp-one", exp.Name)
}

func TestClient_GetExperiment_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetExperiment(context.Background(), "e999")
	assert.ErrorIs(t, err, domain.ErrExperimentNotFound)
}

func TestClient_ListArtifacts(t *testing.T) {
	c := newTestClient(t)

	files, err := c.ListArtifacts(context.Background(), "runA", "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, files[0].IsDir)
	assert.Equal(t, "metrics.csv", files[1].Path)

	nested, err := c.ListArtifacts(context.Background(), "runA", "model")
	require.NoError(t, err)
	require.Len(t, nested, 1)
	assert.Equal(t, "model/weights.bin", nested[0].Path)
}

func TestClient_DownloadArtifact(t *testing.T) {
	c := newTestClient(t)

	data, err := c.DownloadArtifact(context.Background(), "runA", "metrics.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact-bytes"), data)
}
