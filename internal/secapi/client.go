package secapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trogers1052/insider-feed/internal/httpclient"
	"github.com/trogers1052/insider-feed/internal/models"
)

// Client queries the insider trading API for full filing documents
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new insider trading API client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpclient.Default,
	}
}

// queryRequest is the API's query payload
type queryRequest struct {
	Query queryClause      `json:"query"`
	From  int              `json:"from"`
	Size  int              `json:"size"`
	Sort  []map[string]any `json:"sort"`
}

type queryClause struct {
	QueryString queryString `json:"query_string"`
}

type queryString struct {
	Query string `json:"query"`
}

// SearchResult is the API's response envelope
type SearchResult struct {
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
	Transactions []models.FilingDocument `json:"transactions"`
}

// LatestByAccessionNo returns the single most recent filing document for
// an accession number, or nil when the API reports no matches. The caller
// is expected to treat errors as a permanent miss for this filing: the
// stream will not resend the event.
func (c *Client) LatestByAccessionNo(ctx context.Context, accessionNo string) (*models.FilingDocument, error) {
	query := fmt.Sprintf("accessionNo:%q", accessionNo)
	result, err := c.Search(ctx, query, 0, 1)
	if err != nil {
		return nil, err
	}
	if result.Total.Value == 0 || len(result.Transactions) == 0 {
		return nil, nil
	}
	return &result.Transactions[0], nil
}

// Search runs a query-language search against the insider trading API,
// sorted descending by filing time. Used for paged historical backfills.
func (c *Client) Search(ctx context.Context, query string, from, size int) (*SearchResult, error) {
	reqBody := queryRequest{
		Query: queryClause{QueryString: queryString{Query: query}},
		From:  from,
		Size:  size,
		Sort:  []map[string]any{{"filedAt": map[string]string{"order": "desc"}}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("insider trading API returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
