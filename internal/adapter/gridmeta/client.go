// Package gridmeta fetches the archive's published projection parameters.
package gridmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudrift/hrrrmap/internal/projection"
)

// DefaultURL is where the archive publishes its grid projection parameters.
const DefaultURL = "https://hrrrzarr.s3.amazonaws.com/grid/projparams.json"

// Client fetches the projection-parameter document over HTTPS.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a projection metadata client. An empty url selects the
// archive's published document.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchParams retrieves and validates the projection parameters. Every
// parameter must be present and numeric; a partial document is an error, not
// a set of defaults.
func (c *Client) FetchParams(ctx context.Context) (projection.Params, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return projection.Params{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return projection.Params{}, fmt.Errorf("fetch projection params: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return projection.Params{}, fmt.Errorf("projection params endpoint: status %d: %s", resp.StatusCode, body)
	}

	var doc struct {
		Lat0 *float64 `json:"lat_0"`
		Lat1 *float64 `json:"lat_1"`
		Lat2 *float64 `json:"lat_2"`
		Lon0 *float64 `json:"lon_0"`
		A    *float64 `json:"a"`
		B    *float64 `json:"b"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return projection.Params{}, fmt.Errorf("decode projection params: %w", err)
	}

	missing := func(name string) error {
		return fmt.Errorf("projection params: %q missing from %s", name, c.url)
	}
	switch {
	case doc.Lat0 == nil:
		return projection.Params{}, missing("lat_0")
	case doc.Lat1 == nil:
		return projection.Params{}, missing("lat_1")
	case doc.Lat2 == nil:
		return projection.Params{}, missing("lat_2")
	case doc.Lon0 == nil:
		return projection.Params{}, missing("lon_0")
	case doc.A == nil:
		return projection.Params{}, missing("a")
	case doc.B == nil:
		return projection.Params{}, missing("b")
	}

	params := projection.Params{
		Lat0: *doc.Lat0, Lat1: *doc.Lat1, Lat2: *doc.Lat2,
		Lon0: *doc.Lon0, A: *doc.A, B: *doc.B,
	}
	if err := params.Validate(); err != nil {
		return projection.Params{}, err
	}

	c.logger.Debug("projection params fetched", "url", c.url,
		"lat_0", params.Lat0, "lon_0", params.Lon0, "a", params.A, "b", params.B)
	return params, nil
}
