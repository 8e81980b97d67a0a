package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ZeroShotClient talks to a sidecar serving a pre-trained NLI zero-shot model.
type ZeroShotClient struct {
	baseURL string
	client  *http.Client
}

func NewZeroShotClient(baseURL string) *ZeroShotClient {
	return &ZeroShotClient{baseURL: strings.TrimRight(baseURL, "/"), client: externalHTTPClient}
}

type zeroShotRequest struct {
	Text       string   `json:"text"`
	Labels     []string `json:"labels"`
	MultiLabel bool     `json:"multi_label"`
}

// zeroShotResponse mirrors the pipeline output: parallel label and score lists,
// already ranked by score.
type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

func (z *ZeroShotClient) ClassifyMultiLabel(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	body, err := json.Marshal(zeroShotRequest{Text: text, Labels: labels, MultiLabel: true})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zero-shot request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zero-shot service returned %d", resp.StatusCode)
	}

	var zr zeroShotResponse
	if err := json.NewDecoder(resp.Body).Decode(&zr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(zr.Labels) != len(zr.Scores) {
		return nil, fmt.Errorf("zero-shot response has %d labels but %d scores", len(zr.Labels), len(zr.Scores))
	}
	out := make([]LabelScore, len(zr.Labels))
	for i := range zr.Labels {
		out[i] = LabelScore{Label: zr.Labels[i], Confidence: zr.Scores[i]}
	}
	return out, nil
}

// Health calls GET /health and returns the model version, if reported, and latency.
func (z *ZeroShotClient) Health(ctx context.Context) (string, time.Duration, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.baseURL+"/health", http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := z.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return "", latency, fmt.Errorf("service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", latency, fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return "", latency, nil
	}
	return hr.ModelVersion, latency, nil
}
