package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/config"
)

// Service endpoints, relative to the configured base URL
const (
	listEndpoint     = "/api/v1/files/list"
	previewEndpoint  = "/api/v1/files/preview"
	sceneEndpoint    = "/api/v1/files/scene"
	downloadEndpoint = "/api/v1/files/download"

	maxErrorBodySize = 64 * 1024
)

// errEmptyBody marks a successful response without a payload. Callers turn it
// into a nil result so the empty-response handling upstream applies.
var errEmptyBody = errors.New("response body is empty")

// retryLogger implements the retryablehttp.LeveledLogger interface on top of logrus
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(toFields(keysAndValues)).Trace(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(toFields(keysAndValues)).Warn(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// HTTPBackend talks to the file service over its JSON API
type HTTPBackend struct {
	httpClient *http.Client
	baseURL    string
	saver      *FileSaver
}

// NewHTTPBackend creates a backend client from configuration
func NewHTTPBackend(cfg *config.Config, saver *FileSaver) *HTTPBackend {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.General.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = cfg.Timeout()
	retryClient.Logger = &retryLogger{}
	// hand the final response back so the service's error detail survives retries
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPBackend{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.Backend.BaseURL, "/"),
		saver:      saver,
	}
}

// ListDirectory fetches the listing for a directory path
func (b *HTTPBackend) ListDirectory(ctx context.Context, token, dirPath string) (*DirectoryListing, error) {
	var listing DirectoryListing
	if err := b.getJSON(ctx, token, listEndpoint, dirPath, &listing); err != nil {
		if errors.Is(err, errEmptyBody) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// GetFilePreview fetches the text preview of a file
func (b *HTTPBackend) GetFilePreview(ctx context.Context, token, filePath string) (*FilePreview, error) {
	var preview FilePreview
	if err := b.getJSON(ctx, token, previewEndpoint, filePath, &preview); err != nil {
		if errors.Is(err, errEmptyBody) {
			return nil, nil
		}
		return nil, err
	}
	return &preview, nil
}

// GetStructureScene fetches the rendered scene of a structure file
func (b *HTTPBackend) GetStructureScene(ctx context.Context, token, filePath string) (*StructureScene, error) {
	var scene StructureScene
	if err := b.getJSON(ctx, token, sceneEndpoint, filePath, &scene); err != nil {
		if errors.Is(err, errEmptyBody) {
			return nil, nil
		}
		return nil, err
	}
	return &scene, nil
}

// DownloadFile streams a file into the download directory
func (b *HTTPBackend) DownloadFile(ctx context.Context, token, filePath string) (string, error) {
	resp, err := b.do(ctx, token, downloadEndpoint, filePath)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := path.Base(filePath)
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}

	return b.saver.Save(name, resp.Body)
}

func (b *HTTPBackend) getJSON(ctx context.Context, token, endpoint, target string, out interface{}) error {
	resp, err := b.do(ctx, token, endpoint, target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response: %v", err),
			Err:        err,
		}
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errEmptyBody
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Err:        err,
		}
	}
	return nil
}

// do performs an authenticated GET and converts failures into RequestError
func (b *HTTPBackend) do(ctx context.Context, token, endpoint, target string) (*http.Response, error) {
	reqURL := b.baseURL + endpoint + "?path=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger := logrus.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"path":       target,
		"request_id": requestID,
	})
	logger.Debug("backend request")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("backend request failed")
		return nil, &RequestError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		reqErr := decodeRequestError(resp)
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"detail": reqErr.Detail,
		}).Warn("backend returned error status")
		return nil, reqErr
	}

	return resp, nil
}

// decodeRequestError reads a FastAPI-style {"detail": ...} error body
func decodeRequestError(resp *http.Response) *RequestError {
	reqErr := &RequestError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed: %s", resp.Status),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(body) == 0 {
		return reqErr
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return reqErr
	}

	// detail may be a string or a structured validation list; only strings are shown
	var detail string
	if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil {
		reqErr.Detail = detail
	}
	if payload.Message != "" {
		reqErr.Message = payload.Message
	}
	return reqErr
}
