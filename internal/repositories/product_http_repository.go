package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"catalogo/internal/models"
)

// HTTPProductRepository is a ProductRepository backed by the upstream
// products API.
type HTTPProductRepository struct {
	endpoint string
	client   *http.Client
}

// NewHTTPProductRepository creates a repository against the given API
// base URL (the "/products" segment is appended here). A nil client
// falls back to http.DefaultClient.
func NewHTTPProductRepository(baseURL string, client *http.Client) *HTTPProductRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProductRepository{
		endpoint: strings.TrimRight(baseURL, "/") + "/products",
		client:   client,
	}
}

// GetAll retrieves the full catalog.
func (r *HTTPProductRepository) GetAll() ([]models.Product, error) {
	var result models.ProductListResult
	if err := r.do(http.MethodGet, r.endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetByID retrieves a single product.
func (r *HTTPProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.do(http.MethodGet, r.itemURL(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// VerifyID asks the upstream service whether a product ID is already
// taken.
func (r *HTTPProductRepository) VerifyID(id string) (bool, error) {
	var exists bool
	verifyURL := fmt.Sprintf("%s/verification/%s", r.endpoint, url.PathEscape(id))
	if err := r.do(http.MethodGet, verifyURL, nil, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create submits a new product.
func (r *HTTPProductRepository) Create(product *models.Product) (*models.MutationResult, error) {
	var result models.MutationResult
	if err := r.do(http.MethodPost, r.endpoint, product, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update submits changes to an existing product.
func (r *HTTPProductRepository) Update(id string, product *models.Product) (*models.MutationResult, error) {
	var result models.MutationResult
	if err := r.do(http.MethodPut, r.itemURL(id), product, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a product.
func (r *HTTPProductRepository) Delete(id string) (*models.MutationResult, error) {
	var result models.MutationResult
	if err := r.do(http.MethodDelete, r.itemURL(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *HTTPProductRepository) itemURL(id string) string {
	return fmt.Sprintf("%s/%s", r.endpoint, url.PathEscape(id))
}

// do issues one JSON round trip. Non-2xx responses are mapped to a
// plain error carrying the API's own message when one is present.
func (r *HTTPProductRepository) do(method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("products API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.Body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// apiError turns an error response into a plain error, preferring the
// human-readable message the API sends in its body.
func apiError(body io.Reader) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return errors.New(payload.Message)
	}
	return errors.New("Unexpected API error")
}
