package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

const (
	DefaultRESTURL = "https://api.todoist.com/rest/v2"
	DefaultSyncURL = "https://api.todoist.com/sync/v9"

	// completedLimit is the largest page the completed/get_all endpoint serves.
	completedLimit = 200

	// syncTimeLayout is the since/until format accepted by completed/get_all.
	syncTimeLayout = "2006-01-02T15:04:05"
)

// Client is a read-only Todoist API client. The HTTP client is expected to
// authenticate requests itself, see auth.NewClient.
type Client struct {
	http    *http.Client
	restURL string
	syncURL string
}

// NewClient creates a new Todoist client. Empty base URLs fall back to the
// public REST v2 and Sync v9 endpoints.
func NewClient(httpClient *http.Client, restURL, syncURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if restURL == "" {
		restURL = DefaultRESTURL
	}
	if syncURL == "" {
		syncURL = DefaultSyncURL
	}
	return &Client{
		http:    httpClient,
		restURL: strings.TrimRight(restURL, "/"),
		syncURL: strings.TrimRight(syncURL, "/"),
	}
}

func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetSections(ctx context.Context) ([]Section, error) {
	var sections []Section
	if err := c.get(ctx, "/sections", nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) GetCollaborators(ctx context.Context, projectID string) ([]Collaborator, error) {
	var collaborators []Collaborator
	path := "/projects/" + url.PathEscape(projectID) + "/collaborators"
	if err := c.get(ctx, path, nil, &collaborators); err != nil {
		return nil, err
	}
	return collaborators, nil
}

func (c *Client) GetComments(ctx context.Context, projectID string) ([]Comment, error) {
	var comments []Comment
	query := url.Values{"project_id": {projectID}}
	if err := c.get(ctx, "/comments", query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCompletedTasks queries the Sync API completion history for tasks
// completed between since and until, following offsets until a short page
// ends the history.
func (c *Client) GetCompletedTasks(ctx context.Context, since, until time.Time) ([]CompletedItem, error) {
	endpoint := c.syncURL + "/completed/get_all"
	var items []CompletedItem
	for offset := 0; ; {
		form := url.Values{
			"since":          {since.UTC().Format(syncTimeLayout)},
			"until":          {until.UTC().Format(syncTimeLayout)},
			"limit":          {strconv.Itoa(completedLimit)},
			"offset":         {strconv.Itoa(offset)},
			"annotate_items": {"false"},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to build completed tasks request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var page completedResponse
		if err := c.do(req, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if len(page.Items) < completedLimit {
			return items, nil
		}
		offset += len(page.Items)
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	endpoint := c.restURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("todoist request %s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return fmt.Errorf("todoist request %s %s failed: %w", req.Method, req.URL.Path, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
