// Package sheets reads remote collaborative spreadsheets through the
// Sheets v4 REST API.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type spreadsheetResponse struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Values [][]any `json:"values"`
}

// ListSheets returns the sheet titles of a spreadsheet, in sheet order.
func (c *Client) ListSheets(ctx context.Context, spreadsheetID string) ([]string, error) {
	endpoint := fmt.Sprintf(
		"%s/v4/spreadsheets/%s?fields=sheets.properties.title&key=%s",
		c.baseURL,
		url.PathEscape(spreadsheetID),
		url.QueryEscape(c.apiKey),
	)

	var raw spreadsheetResponse
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("list sheets of %s: %w", spreadsheetID, err)
	}

	titles := make([]string, 0, len(raw.Sheets))
	for _, s := range raw.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// ReadSheet returns all values of one sheet. The first row is the header.
// Non-string cells are rendered to their display form.
func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, title string) ([][]string, error) {
	endpoint := fmt.Sprintf(
		"%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(spreadsheetID),
		url.PathEscape(title),
		url.QueryEscape(c.apiKey),
	)

	var raw valueRange
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", title, spreadsheetID, err)
	}

	rows := make([][]string, len(raw.Values))
	for i, row := range raw.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if s, ok := v.(string); ok {
				cells[j] = s
			} else {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows, nil
}

// get performs a JSON GET with context for timeout/cancel support.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets api error: %s", body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
