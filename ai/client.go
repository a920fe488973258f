package ai

import (
    "context"
    "errors"
    "time"

    "github.com/go-resty/resty/v2"
    "go.uber.org/zap"

    "screening-service/models"
)

// ErrServiceUnavailable is returned for any transport or upstream
// failure. Callers surface a generic advisory; the detail stays in the
// logs.
var ErrServiceUnavailable = errors.New("ai service unavailable")

// Client talks to the remote inference service. No retries: a failed
// analysis terminates the attempt and the patient retries explicitly.
type Client struct {
    httpClient *resty.Client
    logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
    client := resty.New().
        SetBaseURL(baseURL).
        SetTimeout(30 * time.Second).
        SetHeader("Content-Type", "application/json").
        SetHeader("Accept", "application/json")

    if apiKey != "" {
        client.SetHeader("X-API-Key", apiKey)
    }

    return &Client{
        httpClient: client,
        logger:     logger,
    }
}

// SelfDiagnose submits the normalized screening input and returns the
// model's diagnosis.
func (c *Client) SelfDiagnose(ctx context.Context, input models.ScreeningInput) (*models.AIDiagnosis, error) {
    var result models.AIDiagnosis

    resp, err := c.httpClient.R().
        SetContext(ctx).
        SetBody(input).
        SetResult(&result).
        Post("/v1/diagnose")

    if err != nil {
        c.logger.Error("AI diagnose call failed", zap.Error(err))
        return nil, ErrServiceUnavailable
    }

    if resp.StatusCode() != 200 {
        c.logger.Error("AI diagnose call returned non-200",
            zap.Int("status", resp.StatusCode()),
            zap.String("body", resp.String()),
        )
        return nil, ErrServiceUnavailable
    }

    c.logger.Info("AI diagnose completed",
        zap.Int("confidence", result.Confidence),
        zap.String("specialization", result.RecommendedSpecialization),
    )

    return &result, nil
}
