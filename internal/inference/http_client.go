package inference

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const inferPath = "/v1/infer"

const defaultPrompt = "Given the market features, answer with a JSON object " +
	`{"action": "buy|sell|hold", "strength": 0-100, "confidence": 0-100, "reason": "..."}`

// HTTPClientOptions configures HTTPClient.
type HTTPClientOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds one HTTP request. The caller's context deadline still applies.
	Timeout time.Duration
	// RequestsPerSecond limits outgoing calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
	// FailureThreshold consecutive failures open the circuit for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
	Logger           *logger.Logger
}

type inferRequest struct {
	Model    string   `json:"model"`
	Prompt   string   `json:"prompt"`
	Features Features `json:"features"`
}

// HTTPClient calls a remote inference service over HTTP.
type HTTPClient struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	model   string
	log     *logger.Logger
}

// NewHTTPClient creates a client for the service at options.BaseURL.
func NewHTTPClient(options HTTPClientOptions) (*HTTPClient, error) {
	if options.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "inference base url is required")
	}

	if options.Timeout <= 0 {
		options.Timeout = 30 * time.Second
	}

	if options.FailureThreshold == 0 {
		options.FailureThreshold = 5
	}

	if options.OpenTimeout <= 0 {
		options.OpenTimeout = 30 * time.Second
	}

	log := options.Logger.Named("inference")

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(options.BaseURL, "/"))
	client.SetTimeout(options.Timeout)
	client.SetHeader("Content-Type", "application/json")

	if options.APIKey != "" {
		client.SetAuthToken(options.APIKey)
	}

	threshold := options.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "inference",
		MaxRequests: 1,
		Timeout:     options.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Inference circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	limit := rate.Inf
	burst := options.Burst

	if options.RequestsPerSecond > 0 {
		limit = rate.Limit(options.RequestsPerSecond)
	}

	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		client:  client,
		breaker: breaker,
		limiter: rate.NewLimiter(limit, burst),
		model:   options.Model,
		log:     log,
	}, nil
}

// Infer posts features to the service and parses its prediction.
func (c *HTTPClient) Infer(ctx context.Context, features Features) (Prediction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Prediction{}, contextError(ctx, err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, features)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Prediction{}, errors.Wrap(errors.ErrCodeInferenceFailure, "inference circuit open", err)
		}

		return Prediction{}, err
	}

	prediction, ok := result.(Prediction)
	if !ok {
		return Prediction{}, errors.New(errors.ErrCodeInferenceResponse, "unexpected prediction type")
	}

	return prediction, nil
}

func (c *HTTPClient) post(ctx context.Context, features Features) (Prediction, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(inferRequest{Model: c.model, Prompt: defaultPrompt, Features: features}).
		Post(inferPath)
	if err != nil {
		if ctx.Err() != nil {
			return Prediction{}, contextError(ctx, err)
		}

		return Prediction{}, errors.Wrap(errors.ErrCodeInferenceFailure, "inference request failed", err)
	}

	if resp.IsError() {
		return Prediction{}, errors.Newf(errors.ErrCodeInferenceFailure, "inference service returned status %d", resp.StatusCode())
	}

	return ParsePrediction(resp.Body())
}

// ParsePrediction decodes a response body that is either a prediction object or
// an envelope {"output": "..."} whose text embeds a prediction object.
func ParsePrediction(body []byte) (Prediction, error) {
	var envelope struct {
		Output *string `json:"output"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return Prediction{}, errors.Wrap(errors.ErrCodeInferenceResponse, "response is not JSON", err)
	}

	payload := body

	if envelope.Output != nil {
		text := *envelope.Output
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")

		if start < 0 || end <= start {
			return Prediction{}, errors.New(errors.ErrCodeInferenceResponse, "no JSON object in model output")
		}

		payload = []byte(text[start : end+1])
	}

	var prediction Prediction
	if err := json.Unmarshal(payload, &prediction); err != nil {
		return Prediction{}, errors.Wrap(errors.ErrCodeInferenceResponse, "failed to decode prediction", err)
	}

	prediction.Action = types.Action(strings.ToLower(strings.TrimSpace(string(prediction.Action))))

	if err := prediction.Validate(); err != nil {
		return Prediction{}, err
	}

	return prediction, nil
}

func contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeInferenceTimeout, "inference timed out", err)
	}

	return errors.Wrap(errors.ErrCodeInferenceFailure, "inference cancelled", err)
}
