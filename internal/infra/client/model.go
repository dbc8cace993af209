// Package client holds HTTP adapters for external model services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

const modelService = "model-server"

// ModelClient calls the model server hosting the anomaly decision function
// and the tax predictor. It implements anomaly.Model and tax.Predictor.
type ModelClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewModelClient creates a new ModelClient.
func NewModelClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ModelClient {
	return &ModelClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

type decisionRequest struct {
	Features []anomaly.Features `json:"features"`
}

type decisionResponse struct {
	Scores []float64 `json:"scores"`
}

// Decision returns one raw decision value per feature vector.
func (c *ModelClient) Decision(ctx context.Context, features []anomaly.Features) ([]float64, error) {
	ctx, span := tracer.Start(ctx, "ModelClient.Decision")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(features)))

	var out decisionResponse
	err := resilience.Call(ctx, c.cb, c.cfg, modelService, func() error {
		return c.postJSON(ctx, "/v1/anomaly/decision", decisionRequest{Features: features}, &out)
	})
	if err != nil {
		return nil, err
	}
	return out.Scores, nil
}

type predictRequest struct {
	Features tax.PredictorFeatures `json:"features"`
}

type predictResponse struct {
	PredictedTax float64  `json:"predicted_tax"`
	Confidence   *float64 `json:"confidence"`
}

// Predict returns the predictor's tax figure for one feature vector.
func (c *ModelClient) Predict(ctx context.Context, features tax.PredictorFeatures) (tax.Prediction, error) {
	ctx, span := tracer.Start(ctx, "ModelClient.Predict")
	defer span.End()

	var out predictResponse
	err := resilience.Call(ctx, c.cb, c.cfg, modelService, func() error {
		return c.postJSON(ctx, "/v1/tax/predict", predictRequest{Features: features}, &out)
	})
	if err != nil {
		return tax.Prediction{}, err
	}
	return tax.Prediction{Tax: out.PredictedTax, Confidence: out.Confidence}, nil
}

// Ping checks the model server health endpoint once, without retries.
func (c *ModelClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server health returned status %d", resp.StatusCode)
	}
	return nil
}

// postJSON sends body and decodes a 200 response into out. 4xx responses are
// not retried.
func (c *ModelClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return resilience.Permanent(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return resilience.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("model API %s returned status %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return resilience.Permanent(err)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resilience.Permanent(fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}
