package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPModel calls a model-serving endpoint that accepts
// {"features": [...]} and answers {"prediction": x}.
type HTTPModel struct {
	URL    string
	Client *http.Client
}

// NewHTTPModel creates a remote model with optional proxy support.
func NewHTTPModel(endpoint, proxyURL string) *HTTPModel {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPModel{
		URL: endpoint,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (m *HTTPModel) Predict(features []float64) (float64, error) {
	body, err := json.Marshal(map[string][]float64{"features": features})
	if err != nil {
		return 0, fmt.Errorf("marshal features: %w", err)
	}
	resp, err := m.Client.Post(m.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("call model endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("model endpoint error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var result struct {
		Prediction *float64 `json:"prediction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode prediction: %w", err)
	}
	if result.Prediction == nil {
		return 0, fmt.Errorf("model endpoint response has no prediction")
	}
	return *result.Prediction, nil
}
