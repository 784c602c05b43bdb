package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/intent"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected gateway status")
	ErrEmptyToken       = errors.New("gateway returned no token")
	ErrNoEndpoint       = errors.New("http transport needs an endpoint")
)

type sendRequest struct {
	Type    intent.Kind    `json:"type"`
	Payload intent.Payload `json:"payload"`
}

type sendResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// HTTP posts each message as JSON to an order gateway.
type HTTP struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTP creates an http transport posting to endpoint + "/orders".
func NewHTTP(endpoint string, timeout time.Duration, logger *zap.Logger) (*HTTP, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTP{
		endpoint: strings.TrimRight(endpoint, "/") + "/orders",
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Send implements submit.Transport.
func (h *HTTP) Send(ctx context.Context, kind intent.Kind, p intent.Payload) (string, error) {
	body, err := json.Marshal(sendRequest{Type: kind, Payload: p})
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var out sendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		h.logger.Warn("gateway_rejected", zap.String("request_id", reqID), zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, msg)
	}
	if out.Token == "" {
		return "", ErrEmptyToken
	}
	return out.Token, nil
}
