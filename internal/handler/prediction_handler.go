package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/predict"
	"github.com/KasumiMercury/sleepwellbaby/internal/templates"
)

const (
	wakeLabelQuery     = "wake_label"
	wakeThresholdQuery = "wake_threshold"
)

// Predictor is the part of predict.Service the handler depends on.
type Predictor interface {
	Predict(ctx context.Context, payload *domain.Payload, opts ...predict.Option) (*domain.Prediction, error)
}

type PredictionHandler struct {
	predictor  Predictor
	apiVersion string
	today      func() domain.Date
}

func NewPredictionHandler(predictor Predictor, apiVersion string) *PredictionHandler {
	return &PredictionHandler{
		predictor:  predictor,
		apiVersion: apiVersion,
		today:      domain.Today,
	}
}

func (h *PredictionHandler) HandlePredict(c *gin.Context) {
	ctx := c.Request.Context()

	var payload domain.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		h.respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	opts, err := predictOptionsFromQuery(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	prediction, err := h.predictor.Predict(ctx, &payload, opts...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidArgument) {
			slog.WarnContext(ctx, "prediction rejected",
				slog.String("error", err.Error()),
			)
			h.respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		slog.ErrorContext(ctx, "prediction failed",
			slog.String("error", err.Error()),
		)
		h.respondError(c, http.StatusInternalServerError, "processing_error", "failed to compute prediction")
		return
	}

	body := gin.H{
		"prediction":  prediction.Label,
		"api_version": h.apiVersion,
	}
	for class, p := range prediction.Probabilities {
		body[class] = p
	}

	c.JSON(http.StatusOK, body)
}

// HandleExample serves the example payload with its dates resolved to today.
func (h *PredictionHandler) HandleExample(c *gin.Context) {
	data, err := templates.ExamplePayloadJSON(h.today())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to load example payload",
			slog.String("error", err.Error()),
		)
		h.respondError(c, http.StatusInternalServerError, "processing_error", "failed to load example payload")
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}

func (h *PredictionHandler) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":       code,
		"message":     message,
		"api_version": h.apiVersion,
	})
}

// predictOptionsFromQuery turns the wake override query parameters into a
// per-call rule. Supplying only one of them is rejected by the service.
func predictOptionsFromQuery(c *gin.Context) ([]predict.Option, error) {
	label, hasLabel := c.GetQuery(wakeLabelQuery)
	raw, hasThreshold := c.GetQuery(wakeThresholdQuery)
	if !hasLabel && !hasThreshold {
		return nil, nil
	}

	rule := decision.Rule{WakeLabel: label}
	if hasThreshold {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("wake_threshold must be a number")
		}
		rule.WakeThreshold = &threshold
	}

	return []predict.Option{predict.WithRule(rule)}, nil
}
