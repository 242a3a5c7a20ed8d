// Package httpclient implements the outbound HTTP adapters for the external
// collaborators this engine consumes: the exchange-rate provider, the quote
// provider and the upstream portfolio CRUD API.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hero710690/worthy-backend/internal/apperrors"
)

// getJSON performs an HTTP GET and unmarshals the JSON response into out.
// Any transport error, non-2xx status or malformed payload is reported as
// ErrProviderUnavailable so callers can treat all fetch failures uniformly.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", apperrors.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: GET %s: %s", apperrors.ErrNotFound, url, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s: %s", apperrors.ErrProviderUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", apperrors.ErrProviderUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", apperrors.ErrProviderUnavailable, err)
	}
	return nil
}
