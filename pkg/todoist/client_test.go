package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL+"/rest/v2", srv.URL+"/sync/v9")
}

func TestGetTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v2/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		w.Write([]byte(`[
			{
				"id": "789",
				"project_id": "123456",
				"section_id": null,
				"content": "Buy milk",
				"priority": 4,
				"labels": ["work", "urgent"],
				"due": {"date": "2023-01-01", "is_recurring": true, "string": "every day"}
			},
			{"id": "790", "project_id": "123456", "section_id": "s1", "priority": 1, "due": null}
		]`))
	})

	tasks, err := newTestClient(t, mux).GetTasks(context.Background())
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.ID != "789" || first.ProjectID != "123456" {
		t.Errorf("Unexpected identity: %+v", first)
	}
	if first.SectionID != "" {
		t.Errorf("Expected null section to decode as empty, got '%s'", first.SectionID)
	}
	if first.Priority != 4 {
		t.Errorf("Expected priority 4, got %d", first.Priority)
	}
	if len(first.Labels) != 2 {
		t.Errorf("Expected 2 labels, got %d", len(first.Labels))
	}
	if !first.HasDueDate() || first.Due.Date != "2023-01-01" || !first.Due.IsRecurring {
		t.Errorf("Unexpected due block: %+v", first.Due)
	}

	if tasks[1].HasDueDate() {
		t.Errorf("Expected second task to have no due date")
	}
	if tasks[1].SectionID != "s1" {
		t.Errorf("Expected section s1, got '%s'", tasks[1].SectionID)
	}
}

func TestGetCollaboratorsAndComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v2/projects/123456/collaborators", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "user1", "name": "User One", "email": "one@example.com"}]`))
	})
	mux.HandleFunc("/rest/v2/comments", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("project_id"); got != "123456" {
			t.Errorf("Expected project_id=123456, got '%s'", got)
		}
		w.Write([]byte(`[{"id": "c1", "project_id": "123456", "content": "hi"}, {"id": "c2", "project_id": "123456"}]`))
	})
	client := newTestClient(t, mux)

	collaborators, err := client.GetCollaborators(context.Background(), "123456")
	if err != nil {
		t.Fatalf("GetCollaborators failed: %v", err)
	}
	if len(collaborators) != 1 || collaborators[0].Name != "User One" {
		t.Errorf("Unexpected collaborators: %+v", collaborators)
	}

	comments, err := client.GetComments(context.Background(), "123456")
	if err != nil {
		t.Fatalf("GetComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("Expected 2 comments, got %d", len(comments))
	}
}

func TestGetProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v2/projects", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "123456", "name": "Inbox", "color": "grey", "is_inbox_project": true, "is_favorite": false},
			{"id": "789012", "name": "Work", "parent_id": "123456", "is_shared": true}
		]`))
	})

	projects, err := newTestClient(t, mux).GetProjects(context.Background())
	if err != nil {
		t.Fatalf("GetProjects failed: %v", err)
	}
	want := []Project{{ID: "123456", Name: "Inbox"}, {ID: "789012", Name: "Work"}}
	if len(projects) != len(want) {
		t.Fatalf("Expected %d projects, got %d", len(want), len(projects))
	}
	for i := range want {
		if projects[i] != want[i] {
			t.Errorf("Expected project %+v, got %+v", want[i], projects[i])
		}
	}
}

func TestGetProjectsStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v2/projects", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	})

	_, err := newTestClient(t, mux).GetProjects(context.Background())
	if err == nil {
		t.Fatal("Expected an error for a 403 response")
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected a *googleapi.Error in the chain, got %T: %v", err, err)
	}
	if apiErr.Code != http.StatusForbidden {
		t.Errorf("Expected code 403, got %d", apiErr.Code)
	}
}

func TestGetCompletedTasks(t *testing.T) {
	since := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2023, 1, 1, 15, 30, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/sync/v9/completed/get_all", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if got := r.PostForm.Get("since"); got != "2023-01-01T00:00:00" {
			t.Errorf("Unexpected since '%s'", got)
		}
		if got := r.PostForm.Get("until"); got != "2023-01-01T15:30:00" {
			t.Errorf("Unexpected until '%s'", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"project_id": "123456", "completed_at": "2023-01-01T10:00:00.000000Z"},
				{"project_id": "123456", "completed_at": "2023-01-01T11:00:00+00:00"},
				{"project_id": "789012", "completed_at": "2023-01-01T12:00:00"},
			},
		})
	})

	items, err := newTestClient(t, mux).GetCompletedTasks(context.Background(), since, until)
	if err != nil {
		t.Fatalf("GetCompletedTasks failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	expected := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	if !items[2].CompletedAt.Equal(expected) {
		t.Errorf("Expected completed_at %v, got %v", expected, items[2].CompletedAt.Time)
	}
}

func TestGetCompletedTasksPages(t *testing.T) {
	const total = 450
	requests := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/sync/v9/completed/get_all", func(w http.ResponseWriter, r *http.Request) {
		requests++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		limit, _ := strconv.Atoi(r.PostForm.Get("limit"))
		offset, _ := strconv.Atoi(r.PostForm.Get("offset"))
		if limit <= 0 {
			t.Fatalf("Expected a positive limit, got '%s'", r.PostForm.Get("limit"))
		}

		items := []map[string]string{}
		for i := offset; i < total && i < offset+limit; i++ {
			items = append(items, map[string]string{"id": strconv.Itoa(i), "project_id": "123456"})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	})

	now := time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC)
	items, err := newTestClient(t, mux).GetCompletedTasks(context.Background(), now.AddDate(0, 0, -7), now)
	if err != nil {
		t.Fatalf("GetCompletedTasks failed: %v", err)
	}
	if len(items) != total {
		t.Errorf("Expected %d items, got %d", total, len(items))
	}
	if requests != 3 {
		t.Errorf("Expected 3 requests, got %d", requests)
	}
	if items[total-1].ID != strconv.Itoa(total-1) {
		t.Errorf("Expected last item %d, got %s", total-1, items[total-1].ID)
	}
}

func TestCustomTimeRejectsGarbage(t *testing.T) {
	var ct CustomTime
	if err := ct.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Error("Expected an error for an unparsable timestamp")
	}
	if err := ct.UnmarshalJSON([]byte(`null`)); err != nil || !ct.IsZero() {
		t.Errorf("Expected null to decode to the zero time, got %v (%v)", ct.Time, err)
	}
}
