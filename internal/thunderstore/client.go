// Package thunderstore fetches non-essential remote data (community
// categories, package changelogs) from the Thunderstore API.
//
// Failures here degrade silently: callers log and show no data instead of
// interrupting the user with a toast.
package thunderstore

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/Kesomannen/gale/pkg/types"
)

const defaultBaseURL = "https://thunderstore.io"

type filtersResponse struct {
	Results []types.PackageCategory `json:"results"`
}

type changelogResponse struct {
	Markdown string `json:"markdown"`
}

// Client is a thin wrapper around the Thunderstore experimental API.
type Client struct {
	http *resty.Client
}

// NewClient creates a Thunderstore client. An empty baseURL uses the
// public instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// Categories fetches the package categories of a community.
func (c *Client) Categories(ctx context.Context, community string) ([]types.PackageCategory, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&filtersResponse{}).
		SetPathParam("community", community).
		Get("/api/experimental/community/{community}/category/")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch categories for %s: %s", community, res.Status())
	}
	return res.Result().(*filtersResponse).Results, nil
}

// Changelog fetches a package version's changelog markdown.
func (c *Client) Changelog(ctx context.Context, namespace, name, version string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&changelogResponse{}).
		SetPathParams(map[string]string{
			"namespace": namespace,
			"name":      name,
			"version":   version,
		}).
		Get("/api/experimental/package/{namespace}/{name}/{version}/changelog/")
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("fetch changelog for %s/%s %s: %s", namespace, name, version, res.Status())
	}
	return res.Result().(*changelogResponse).Markdown, nil
}
