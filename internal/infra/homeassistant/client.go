package homeassistant

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPClient implements the homeassistant.Source interface against a real
// Home Assistant server using its REST API.
type HTTPClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

// NewHTTPClient creates a client for the server at baseURL, authenticating
// with the given long-lived access token. When insecure is true, TLS
// certificate verification is skipped.
func NewHTTPClient(baseURL, accessToken string, insecure bool) *HTTPClient {
	httpClient := &http.Client{}
	if insecure {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		http:        httpClient,
	}
}

type entityStateResponse struct {
	EntityID string `json:"entity_id"`
	State    string `json:"state"`
}

// EntityState fetches the current state of entityID from the entity-state
// endpoint. The state is returned lowercased so rule matching downstream
// never needs to normalize.
func (c *HTTPClient) EntityState(ctx context.Context, entityID string) (string, error) {
	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, entityID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build entity state request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch state for entity %s: %w", entityID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d fetching state for entity %s", resp.StatusCode, entityID)
	}

	var body entityStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode entity state response: %w", err)
	}
	if body.State == "" {
		return "", fmt.Errorf("entity state response for %s carries no state", entityID)
	}

	return strings.ToLower(body.State), nil
}
