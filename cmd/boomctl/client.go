package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BenFNash/boom-power/pkg/authz"
)

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newClient() *apiClient {
	return &apiClient{
		baseURL: serverURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *apiClient) do(method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authz.UserHeader, asUser)
	req.Header.Set(authz.RolesHeader, asRoles)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

// getJSON performs a GET request and decodes the response.
func (c *apiClient) getJSON(path string, v any) error {
	return c.do(http.MethodGet, path, nil, v)
}

// postJSON performs a POST request with a JSON body and decodes the response.
func (c *apiClient) postJSON(path string, body any, v any) error {
	return c.do(http.MethodPost, path, body, v)
}

// patchJSON performs a PATCH request with a JSON body and decodes the response.
func (c *apiClient) patchJSON(path string, body any, v any) error {
	return c.do(http.MethodPatch, path, body, v)
}

// getText performs a GET request and returns the plain-text body.
func (c *apiClient) getText(path string) (string, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}
