// Package gateway appelle les API REST des autres services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
)

// CallError est retournée pour toute réponse non-2xx. Problem est nil si le corps n'est pas un problem+json.
type CallError struct {
	Method  string
	Path    string
	Status  int
	Problem *httpx.Problem
}

func (e *CallError) Error() string {
	if e.Problem != nil && e.Problem.ValidationType != "" {
		return fmt.Sprintf("%s %s returned %d (%s): %s", e.Method, e.Path, e.Status, e.Problem.ValidationType, e.Problem.Error())
	}
	if e.Problem != nil {
		return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Problem.Error())
	}
	return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Status)
}

type idResponse struct {
	ID string `json:"id"`
}

type client struct {
	service string
	baseURL string
	http    *http.Client
}

func newClient(service, baseURL string, timeout time.Duration) *client {
	return &client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// do envoie body en JSON et décode la réponse dans out (ignoré si nil).
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s call: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		callErr := &CallError{Method: method, Path: path, Status: resp.StatusCode}
		var p httpx.Problem
		if err := json.NewDecoder(resp.Body).Decode(&p); err == nil && (p.Title != "" || p.Detail != "") {
			callErr.Problem = &p
		}
		return callErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}

// create POST body et retourne l'identifiant de la ressource créée.
func (c *client) create(ctx context.Context, path string, body any) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%s: empty id in response to POST %s", c.service, path)
	}
	return out.ID, nil
}
