package moodle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/curriculab/studio/internal/httpx"
)

// Client speaks the Moodle webservice REST protocol: every call is a
// form POST to /webservice/rest/server.php selected by wsfunction.
// Moodle reports failures as HTTP 200 bodies carrying an exception
// object, so every response is checked for one before decoding.
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

/* -------- Moodle wire shapes -------- */

type Course struct {
	ID        int    `json:"id"`
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
}

type Section struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Modules []Module `json:"modules"`
}

type Module struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Visible int    `json:"visible"`
}

// wsException is the error body Moodle returns with HTTP 200.
type wsException struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

/* -------- API -------- */

func (c *Client) GetCoursesByField(ctx context.Context, field, value string) ([]Course, error) {
	var out struct {
		Courses []Course `json:"courses"`
	}
	form := url.Values{"field": {field}, "value": {value}}
	if err := c.call(ctx, "core_course_get_courses_by_field", form, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

func (c *Client) CreateCourse(ctx context.Context, fullName, shortName string) (*Course, error) {
	form := url.Values{
		"courses[0][fullname]":   {fullName},
		"courses[0][shortname]":  {shortName},
		"courses[0][categoryid]": {"1"},
	}
	var out []Course
	if err := c.call(ctx, "core_course_create_courses", form, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("moodle returned no course")
	}
	created := out[0]
	if created.FullName == "" {
		created.FullName = fullName
	}
	return &created, nil
}

func (c *Client) GetContents(ctx context.Context, courseID string) ([]Section, error) {
	var out []Section
	form := url.Values{"courseid": {courseID}}
	if err := c.call(ctx, "core_course_get_contents", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSection calls the Studio companion plugin shipped with the
// Moodle integration; core webservices cannot add sections.
func (c *Client) CreateSection(ctx context.Context, courseID, name string) (*Section, error) {
	var out Section
	form := url.Values{"courseid": {courseID}, "name": {name}}
	if err := c.call(ctx, "local_studio_create_section", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertModule creates or updates an external-URL module inside a
// section through the Studio companion plugin. moduleID empty creates.
func (c *Client) UpsertModule(ctx context.Context, courseID, sectionID, moduleID, name, link string) (*Module, error) {
	form := url.Values{
		"courseid":  {courseID},
		"sectionid": {sectionID},
		"name":      {name},
		"url":       {link},
		"visible":   {"1"},
	}
	if moduleID != "" {
		form.Set("moduleid", moduleID)
	}
	var out Module
	if err := c.call(ctx, "local_studio_upsert_module", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* -------- transport -------- */

func (c *Client) call(ctx context.Context, wsfunction string, form url.Values, out any) error {
	body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		payload := url.Values{}
		for k, vs := range form {
			payload[k] = vs
		}
		payload.Set("wstoken", c.Token)
		payload.Set("wsfunction", wsfunction)
		payload.Set("moodlewsrestformat", "json")

		endpoint := strings.TrimRight(c.BaseURL, "/") + "/webservice/rest/server.php"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, c.Retry)
	if err != nil {
		return err
	}

	var exc wsException
	if json.Unmarshal(body, &exc) == nil && exc.Exception != "" {
		return &exc
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", wsfunction, err)
	}
	return nil
}

func (e *wsException) Error() string {
	return fmt.Sprintf("moodle %s (%s): %s", e.Exception, e.ErrorCode, e.Message)
}
