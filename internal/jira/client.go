package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/steveyegge/launchgate/internal/types"
)

// childFields is the set of fields requested for checklist children.
const childFields = "summary,status,assignee,priority,updated"

// Client provides HTTP access to a Jira instance.
// It implements source.IssueSource.
type Client struct {
	URL        string
	Username   string
	APIToken   string
	PageSize   int
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:       strings.TrimSuffix(url, "/"),
		Username:  username,
		APIToken:  apiToken,
		PageSize:  DefaultPageSize,
		UserAgent: "lg/dev",
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// FetchChildren returns the direct children of parentKey (JQL parent=KEY).
// Only one page is fetched; Total reports how many children Jira has.
func (c *Client) FetchChildren(ctx context.Context, parentKey string) (types.ChildPage, error) {
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{
		"jql":        {fmt.Sprintf("parent=%s", parentKey)},
		"fields":     {childFields},
		"startAt":    {"0"},
		"maxResults": {strconv.Itoa(pageSize)},
	}
	apiURL := fmt.Sprintf("%s/rest/api/3/search?%s", c.URL, params.Encode())

	body, err := c.doRequest(ctx, http.MethodGet, apiURL)
	if err != nil {
		return types.ChildPage{}, fmt.Errorf("fetch children of %s: %w", parentKey, err)
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return types.ChildPage{}, fmt.Errorf("parse search response: %w", err)
	}

	page := types.ChildPage{
		Items: make([]types.Item, 0, len(result.Issues)),
		Total: result.Total,
	}
	for i := range result.Issues {
		page.Items = append(page.Items, result.Issues[i].ToItem())
	}
	if page.Total < len(page.Items) {
		page.Total = len(page.Items)
	}
	return page, nil
}

// FetchLinks returns the issue links of key.
func (c *Client) FetchLinks(ctx context.Context, key string) ([]types.Link, error) {
	apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=issuelinks", c.URL, url.PathEscape(key))

	body, err := c.doRequest(ctx, http.MethodGet, apiURL)
	if err != nil {
		return nil, fmt.Errorf("fetch links of %s: %w", key, err)
	}

	var issue Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}

	links := make([]types.Link, 0, len(issue.Fields.IssueLinks))
	for _, l := range issue.Fields.IssueLinks {
		links = append(links, l.ToLink())
	}
	return links, nil
}

// doRequest executes an authenticated GET and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, apiURL string) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
// Basic auth when a username is configured (Jira Cloud), bearer PAT otherwise.
func (c *Client) setAuth(req *http.Request) {
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}
