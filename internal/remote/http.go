package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
)

// ColorsPath is the collection resource path relative to the base URL.
const ColorsPath = "/colors"

// maxErrorBody caps how much of a failed response is read into the error.
const maxErrorBody = 4096

// HTTPColorStore implements ColorStore against a REST-like /colors resource.
type HTTPColorStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPColorStore creates a store for the collection under baseURL.
// The timeout bounds each request; zero means no timeout.
func NewHTTPColorStore(baseURL string, timeout time.Duration) *HTTPColorStore {
	return &HTTPColorStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewHTTPColorStoreWithClient creates a store using a caller-provided client.
func NewHTTPColorStoreWithClient(baseURL string, client *http.Client) *HTTPColorStore {
	return &HTTPColorStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the collection's base URL.
func (s *HTTPColorStore) BaseURL() string {
	return s.baseURL
}

// List fetches every color in collection order.
func (s *HTTPColorStore) List(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	if err := s.do(ctx, "list", http.MethodGet, s.collectionURL(), nil, &colors); err != nil {
		return nil, err
	}
	if colors == nil {
		colors = []model.Color{}
	}
	return colors, nil
}

// Create posts a new color and returns the record with its assigned id.
func (s *HTTPColorStore) Create(ctx context.Context, name, hex string) (*model.Color, error) {
	var created model.Color
	body := model.ColorInput{Name: name, Hex: hex}
	if err := s.do(ctx, "create", http.MethodPost, s.collectionURL(), body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Remove deletes the color with the given id.
func (s *HTTPColorStore) Remove(ctx context.Context, id string) error {
	return s.do(ctx, "delete", http.MethodDelete, s.itemURL(id), nil, nil)
}

// Update replaces the name and hex of an existing color.
func (s *HTTPColorStore) Update(ctx context.Context, id, name, hex string) (*model.Color, error) {
	var updated model.Color
	body := model.ColorInput{Name: name, Hex: hex}
	if err := s.do(ctx, "update", http.MethodPut, s.itemURL(id), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *HTTPColorStore) collectionURL() string {
	return s.baseURL + ColorsPath
}

func (s *HTTPColorStore) itemURL(id string) string {
	return s.collectionURL() + "/" + url.PathEscape(id)
}

// do performs one request. Every failure is returned as a *TransportError.
func (s *HTTPColorStore) do(ctx context.Context, op, method, target string, body, out any) error {
	transportErr := func(status int, msg string, err error) error {
		return &palerr.TransportError{
			Op:         op,
			Method:     method,
			URL:        target,
			StatusCode: status,
			Message:    msg,
			Err:        err,
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return transportErr(0, "", fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return transportErr(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return transportErr(0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportErr(resp.StatusCode, readErrorMessage(resp.Body), nil)
	}

	if out == nil {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportErr(0, "", fmt.Errorf("invalid response body: %w", err))
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from a failed response, falling
// back to the raw body text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
