package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-export-service/internal/domain"
)

const (
	apiPrefix       = "/api/2.0/mlflow"
	headerRequestID = "X-Request-ID"

	// Error code the tracking server uses for deleted or unknown entities.
	codeNotFound = "RESOURCE_DOES_NOT_EXIST"
)

// Client talks to a tracking server's REST surface. It implements
// domain.RegistrySource, domain.TrackingSource and domain.ArtifactSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// get performs one GET against the tracking server and decodes the JSON
// response into out. A RESOURCE_DOES_NOT_EXIST error body is mapped to the
// notFound sentinel so callers can branch on the error kind.
func (c *Client) get(ctx context.Context, path string, query url.Values, notFound error, out interface{}) error {
	body, err := c.raw(ctx, path, query, notFound)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, path string, query url.Values, notFound error) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create tracking request: %w", err)
	}
	req.Header.Set(headerRequestID, uuid.New().String())

	log.WithFields(log.Fields{
		"method": http.MethodGet,
		"url":    u,
	}).Debug("tracking server request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tracking response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorCode == codeNotFound && notFound != nil {
			return nil, fmt.Errorf("%w: %s", notFound, apiErr.Message)
		}
		return nil, fmt.Errorf("tracking server returned %d for %s: %s", resp.StatusCode, path, body)
	}
	return body, nil
}

func (c *Client) GetRegisteredModel(ctx context.Context, name string) (domain.Document, error) {
	var doc domain.Document
	query := url.Values{"name": {name}}
	if err := c.get(ctx, apiPrefix+"/registered-models/get", query, domain.ErrModelNotFound, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) ListModelVersions(ctx context.Context, name string) ([]domain.ModelVersion, error) {
	var out struct {
		ModelVersions []domain.ModelVersion `json:"model_versions"`
	}
	query := url.Values{"filter": {fmt.Sprintf("name='%s'", name)}}
	if err := c.get(ctx, apiPrefix+"/model-versions/search", query, domain.ErrModelNotFound, &out); err != nil {
		return nil, err
	}
	return out.ModelVersions, nil
}

func (c *Client) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	var out struct {
		Run runPayload `json:"run"`
	}
	query := url.Values{"run_id": {runID}}
	if err := c.get(ctx, apiPrefix+"/runs/get", query, domain.ErrRunNotFound, &out); err != nil {
		return nil, err
	}
	return out.Run.toDomain(), nil
}

func (c *Client) GetExperiment(ctx context.Context, experimentID string) (*domain.Experiment, error) {
	var out struct {
		Experiment domain.Experiment `json:"experiment"`
	}
	query := url.Values{"experiment_id": {experimentID}}
	if err := c.get(ctx, apiPrefix+"/experiments/get", query, domain.ErrExperimentNotFound, &out); err != nil {
		return nil, err
	}
	return &out.Experiment, nil
}

func (c *Client) ListArtifacts(ctx context.Context, runID, path string) ([]domain.ArtifactFile, error) {
	var out struct {
		Files []domain.ArtifactFile `json:"files"`
	}
	query := url.Values{"run_id": {runID}}
	if path != "" {
		query.Set("path", path)
	}
	if err := c.get(ctx, apiPrefix+"/artifacts/list", query, domain.ErrRunNotFound, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *Client) DownloadArtifact(ctx context.Context, runID, path string) ([]byte, error) {
	query := url.Values{"run_id": {runID}, "path": {path}}
	return c.raw(ctx, "/get-artifact", query, domain.ErrRunNotFound)
}

// Wire shape of a run: the server returns params, metrics and tags as
// key/value lists, flattened to maps here.
type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type metric struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type runPayload struct {
	Info domain.RunInfo `json:"info"`
	Data struct {
		Params  []keyValue `json:"params"`
		Metrics []metric   `json:"metrics"`
		Tags    []keyValue `json:"tags"`
	} `json:"data"`
}

func (p runPayload) toDomain() *domain.Run {
	run := &domain.Run{
		Info:    p.Info,
		Params:  make(map[string]string, len(p.Data.Params)),
		Metrics: make(map[string]float64, len(p.Data.Metrics)),
		Tags:    make(map[string]string, len(p.Data.Tags)),
	}
	for _, kv := range p.Data.Params {
		run.Params[kv.Key] = kv.Value
	}
	for _, m := range p.Data.Metrics {
		run.Metrics[m.Key] = m.Value
	}
	for _, kv := range p.Data.Tags {
		run.Tags[kv.Key] = kv.Value
	}
	return run
}
