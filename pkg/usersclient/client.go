// Package usersclient interroge users-service pour vérifier l'existence d'un utilisateur.
package usersclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type existsResponse struct {
	UserID string `json:"userId"`
	Exists bool   `json:"exists"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New crée un client avec transport instrumenté (propagation du trace context).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Exists retourne true si l'utilisateur existe et est ACTIVE.
func (c *Client) Exists(ctx context.Context, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/exists", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("users-service call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("users-service returned %d", resp.StatusCode)
	}

	var body existsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode exists response: %w", err)
	}
	return body.Exists, nil
}
