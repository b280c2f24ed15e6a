package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pozmatch/backend/internal/domain"
	"golang.org/x/time/rate"
)

// pozItemRow mirrors the remote catalog API's wire format (snake_case, as
// stored in the hosted Postgres table).
type pozItemRow struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
}

// RemoteStore is the primary catalog backend: a PostgREST-style HTTP API in
// front of the hosted catalog table. All failures to reach or read the API
// are wrapped in domain.ErrStoreUnavailable so the fallback policy can
// recognize them.
type RemoteStore struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewRemoteStore creates a remote catalog store client
func NewRemoteStore(apiKey, baseURL string) *RemoteStore {
	// The hosted API throttles aggressively; 10 req/s with a small burst
	// keeps admin bulk loads under its limits.
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &RemoteStore{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (s *RemoteStore) SetDebug(enabled bool) {
	s.debug = enabled
}

// ListItems fetches the full catalog ordered by code.
func (s *RemoteStore) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	params := url.Values{}
	params.Add("select", "code,description,unit,unit_price")
	params.Add("order", "code")
	reqURL := fmt.Sprintf("%s/rest/v1/poz_items?%s", s.baseURL, params.Encode())

	body, err := s.doRequest(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []pozItemRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode catalog list: %v", domain.ErrStoreUnavailable, err)
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CatalogItem{
			Code:        row.Code,
			Description: row.Description,
			Unit:        row.Unit,
			UnitPrice:   row.UnitPrice,
		})
	}

	if s.debug {
		log.Printf("[STORE] remote list returned %d items", len(items))
	}
	return items, nil
}

// UpsertItem inserts or replaces one item keyed by code.
func (s *RemoteStore) UpsertItem(ctx context.Context, item domain.CatalogItem) error {
	return s.UpsertItems(ctx, []domain.CatalogItem{item})
}

// UpsertItems inserts or replaces a batch keyed by code, last write wins.
func (s *RemoteStore) UpsertItems(ctx context.Context, items []domain.CatalogItem) error {
	rows := make([]pozItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, pozItemRow{
			Code:        item.Code,
			Description: item.Description,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
		})
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode catalog rows: %w", err)
	}

	reqURL := fmt.Sprintf("%s/rest/v1/poz_items?on_conflict=code", s.baseURL)
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	_, err = s.doRequest(ctx, http.MethodPost, reqURL, payload, headers)
	return err
}

// DeleteItem removes the item with the given code.
func (s *RemoteStore) DeleteItem(ctx context.Context, code string) error {
	params := url.Values{}
	params.Add("code", "eq."+code)
	reqURL := fmt.Sprintf("%s/rest/v1/poz_items?%s", s.baseURL, params.Encode())

	_, err := s.doRequest(ctx, http.MethodDelete, reqURL, nil, nil)
	return err
}

// doRequest executes one API call with auth headers, the outbound rate
// limiter, and a retry loop with exponential backoff for transient failures.
func (s *RemoteStore) doRequest(ctx context.Context, method, reqURL string, payload []byte, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if s.debug {
				log.Printf("[STORE] remote request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			time.Sleep(backoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if s.debug {
				log.Printf("[STORE] remote API error (attempt %d) - status %d: %s", attempt, resp.StatusCode, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
			// 4xx responses other than 429 will not improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			time.Sleep(backoff(attempt))
			continue
		}

		return body, nil
	}

	return nil, lastErr
}

// backoff returns the sleep before the next retry attempt
func backoff(attempt int) time.Duration {
	return time.Duration(attempt*500) * time.Millisecond
}
