package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/curriculab/studio/internal/httpx"
)

// Client is a thin wrapper over the Canvas REST API. It speaks raw
// Canvas shapes; Adapter normalizes them.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Retry:   httpx.DefaultRetryConfig(),
	}
}

/* -------- Canvas wire shapes -------- */

type Course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Module struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Published bool         `json:"published"`
	Items     []ModuleItem `json:"items,omitempty"`
}

type ModuleItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	ExternalURL string `json:"external_url"`
	HTMLURL     string `json:"html_url"`
	Published   bool   `json:"published"`
}

/* -------- API -------- */

func (c *Client) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	var out Course
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/courses/%s", courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	q := url.Values{"enrollment_type": {"teacher"}, "per_page": {"100"}}
	if err := c.getJSON(ctx, "/api/v1/courses", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCourse(ctx context.Context, name string) (*Course, error) {
	body := map[string]any{"course": map[string]any{"name": name, "offer": true}}
	var out Course
	if err := c.sendJSON(ctx, http.MethodPost, "/api/v1/accounts/self/courses", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListModules(ctx context.Context, courseID string, withItems bool) ([]Module, error) {
	q := url.Values{"per_page": {"100"}}
	if withItems {
		q.Set("include[]", "items")
	}
	var out []Module
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/courses/%s/modules", courseID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateModule(ctx context.Context, courseID, name string) (*Module, error) {
	body := map[string]any{"module": map[string]any{"name": name}}
	var out Module
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/v1/courses/%s/modules", courseID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublishModule(ctx context.Context, courseID string, moduleID int) (*Module, error) {
	body := map[string]any{"module": map[string]any{"published": true}}
	var out Module
	path := fmt.Sprintf("/api/v1/courses/%s/modules/%d", courseID, moduleID)
	if err := c.sendJSON(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateModuleItem(ctx context.Context, courseID, moduleID, title, link string) (*ModuleItem, error) {
	body := map[string]any{"module_item": map[string]any{
		"title":        title,
		"type":         "ExternalUrl",
		"external_url": link,
		"new_tab":      true,
	}}
	var out ModuleItem
	path := fmt.Sprintf("/api/v1/courses/%s/modules/%s/items", courseID, moduleID)
	if err := c.sendJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateModuleItem(ctx context.Context, courseID, moduleID, itemID, title, link string, published bool) (*ModuleItem, error) {
	body := map[string]any{"module_item": map[string]any{
		"title":        title,
		"external_url": link,
		"published":    published,
	}}
	var out ModuleItem
	path := fmt.Sprintf("/api/v1/courses/%s/modules/%s/items/%s", courseID, moduleID, itemID)
	if err := c.sendJSON(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* -------- transport -------- */

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	return httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		u := c.BaseURL + path
		if len(q) > 0 {
			u += "?" + q.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		c.authorize(req)
		return req, nil
	}, out, c.Retry)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)
		return req, nil
	}, out, c.Retry)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
}
