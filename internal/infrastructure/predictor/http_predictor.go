package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/config"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"

	"github.com/sirupsen/logrus"
)

// HTTPPredictor calls the model-serving endpoint that hosts the trained
// no-show and reschedule classifiers.
type HTTPPredictor struct {
	client  *http.Client
	baseURL string
	log     *logrus.Logger
}

func NewHTTPPredictor(cfg config.PredictorConfig, log *logrus.Logger) *HTTPPredictor {
	return &HTTPPredictor{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.URL,
		log:     log,
	}
}

type predictionResponse struct {
	Probability float64 `json:"probability"`
}

func (p *HTTPPredictor) PredictNoShow(ctx context.Context, features service.FeatureVector) (float64, error) {
	return p.predict(ctx, "no-show", features)
}

func (p *HTTPPredictor) PredictReschedule(ctx context.Context, features service.FeatureVector) (float64, error) {
	return p.predict(ctx, "reschedule", features)
}

func (p *HTTPPredictor) predict(ctx context.Context, model string, features service.FeatureVector) (float64, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return 0, fmt.Errorf("%w: encode features: %v", service.ErrPrediction, err)
	}

	url := fmt.Sprintf("%s/predict/%s", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", service.ErrPrediction, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warnf("Predictor %s call failed: %+v", model, err)
		return 0, fmt.Errorf("%w: %v", service.ErrPrediction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warnf("Predictor %s returned status %d", model, resp.StatusCode)
		return 0, fmt.Errorf("%w: unexpected status %d", service.ErrPrediction, resp.StatusCode)
	}

	var result predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", service.ErrPrediction, err)
	}

	if err := service.ValidateProbability(result.Probability); err != nil {
		p.log.Warnf("Predictor %s returned out-of-range probability %f", model, result.Probability)
		return 0, err
	}

	return result.Probability, nil
}
