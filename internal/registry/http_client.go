package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient is a Registry backed by the small HTTP directory service in
// server.go, following the same doRequest-and-decode shape as the teacher's
// core.RemoteDownloadService.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPClient builds a registry client against baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPClient) doRequest(method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("registry error %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

func (c *HTTPClient) Register(name, endpoint string) error {
	q := url.Values{"name": {name}, "endpoint": {endpoint}}
	resp, err := c.doRequest(http.MethodPost, "/register?"+q.Encode())
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *HTTPClient) Lookup(name string) (string, error) {
	resp, err := c.doRequest(http.MethodGet, "/lookup?name="+url.QueryEscape(name))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}

	var out struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Endpoint, nil
}

func (c *HTTPClient) Unregister(name string) error {
	resp, err := c.doRequest(http.MethodPost, "/unregister?name="+url.QueryEscape(name))
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *HTTPClient) ListPrefix(prefix string) (map[string]string, error) {
	resp, err := c.doRequest(http.MethodGet, "/list?prefix="+url.QueryEscape(prefix))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
