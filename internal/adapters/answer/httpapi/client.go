package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports"
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultChatPath       = "/api/chat"
	DefaultHealthPath     = "/api/health"
	DefaultRequestTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

var (
	_ ports.AnswerService = Client{}
	_ ports.HealthChecker = Client{}
)

type API struct {
	BaseURL    string
	ChatPath   string
	HealthPath string
}

type Client struct {
	API            API
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func (c Client) Ask(ctx context.Context, message string) (string, error) {
	endpoint, err := buildAPIURL(c.API.BaseURL, c.chatPath())
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("post chat: %w: %w", domain.ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", decodeServiceError(resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w: %w", domain.ErrTransportFailure, err)
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode chat response: %w: %w", domain.ErrMalformedResponse, err)
	}
	if payload.Response == nil {
		return "", fmt.Errorf("chat response missing %q field: %w", "response", domain.ErrMalformedResponse)
	}

	return *payload.Response, nil
}

func (c Client) Health(ctx context.Context) error {
	endpoint, err := buildAPIURL(c.API.BaseURL, c.healthPath())
	if err != nil {
		return err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("get health: %w: %w", domain.ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeServiceError(resp)
	}

	var payload healthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return fmt.Errorf("decode health response: %w: %w", domain.ErrMalformedResponse, err)
	}
	if payload.Status != "ok" {
		return fmt.Errorf("health status %q: %w", payload.Status, domain.ErrMalformedResponse)
	}

	return nil
}

func (c Client) chatPath() string {
	if c.API.ChatPath == "" {
		return DefaultChatPath
	}
	return c.API.ChatPath
}

func (c Client) healthPath() string {
	if c.API.HealthPath == "" {
		return DefaultHealthPath
	}
	return c.API.HealthPath
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeServiceError(resp *http.Response) error {
	serviceErr := &domain.ServiceError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err == nil {
		serviceErr.Detail = detailText(payload.Detail)
	}

	return serviceErr
}

// detailText flattens a FastAPI style detail, which is either a string or a
// list of validation errors.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(raw)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	// The base URL may carry a prefix, e.g. behind a reverse proxy.
	return parsed.JoinPath(path).String(), nil
}

// ValidateBaseURL reports whether baseURL can be used to reach the service.
func ValidateBaseURL(baseURL string) error {
	_, err := buildAPIURL(baseURL, DefaultChatPath)
	return err
}
