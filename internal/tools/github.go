package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/registry"
	"github.com/rohanbanda-TRT/windsurf-mcp-integration/internal/wire"
)

const githubAPIBase = "https://api.github.com"

// GitHubListRepos returns the github_list_repos tool against the public
// GitHub API.
func GitHubListRepos() *registry.Tool {
	return newGitHub(githubAPIBase, &http.Client{Timeout: 30 * time.Second}).tool()
}

// gitHub holds the API base and client so tests can point the tool at a
// stub server.
type gitHub struct {
	baseURL string
	client  *http.Client
}

func newGitHub(baseURL string, client *http.Client) *gitHub {
	return &gitHub{baseURL: baseURL, client: client}
}

func (g *gitHub) tool() *registry.Tool {
	return &registry.Tool{
		Name:        "github_list_repos",
		Description: "List repositories for a GitHub user",
		Parameters: map[string]wire.ParamSpec{
			"username": {Type: "string", Description: "GitHub username (optional, uses default if not provided)"},
			"per_page": {Type: "integer", Description: "Number of repositories per page (default: 30)"},
			"page":     {Type: "integer", Description: "Page number (default: 1)"},
		},
		Handler: g.handle,
	}
}

func (g *gitHub) handle(ctx context.Context, params map[string]any) (any, error) {
	username := stringParam(params, "username", os.Getenv("GITHUB_USERNAME"))
	if username == "" {
		return nil, fmt.Errorf("no username provided and no default username configured")
	}

	perPage := intParam(params, "per_page", 30)
	page := intParam(params, "page", 1)

	endpoint := fmt.Sprintf("%s/users/%s/repos", g.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	query := req.URL.Query()
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sort", "updated")
	req.URL.RawQuery = query.Encode()

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "MCP-Server-Windsurf")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}

		message := "Unknown error"
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			message = apiErr.Message
		}

		return nil, fmt.Errorf("GitHub API returned status code %d: %s", resp.StatusCode, message)
	}

	var repos []struct {
		Name        string  `json:"name"`
		FullName    string  `json:"full_name"`
		Description *string `json:"description"`
		HTMLURL     string  `json:"html_url"`
		Language    *string `json:"language"`
		Stars       int     `json:"stargazers_count"`
		Forks       int     `json:"forks_count"`
		UpdatedAt   string  `json:"updated_at"`
		Private     bool    `json:"private"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode GitHub response: %w", err)
	}

	result := make([]map[string]any, 0, len(repos))

	for _, repo := range repos {
		result = append(result, map[string]any{
			"name":        repo.Name,
			"full_name":   repo.FullName,
			"description": repo.Description,
			"html_url":    repo.HTMLURL,
			"language":    repo.Language,
			"stars":       repo.Stars,
			"forks":       repo.Forks,
			"updated_at":  repo.UpdatedAt,
			"private":     repo.Private,
		})
	}

	return map[string]any{
		"repositories": result,
		"count":        len(result),
		"page":         page,
		"per_page":     perPage,
	}, nil
}
