package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"ipcynab/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL, AccessToken: "secret", BudgetID: "budget-1"})
}

func TestGetCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/budgets/budget-1/categories/cat-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer secret")
		}
		w.Write([]byte(`{"data":{"category":{"id":"cat-1","name":"Rent","goal_target":1004000,"note":"2024-12 Monthly IPC: 0.4%: 1000.00€ -> 1004.00€"}}}`))
	})

	state, err := c.GetCategory(context.Background(), "cat-1")
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	want := core.CategoryState{
		ID:               "cat-1",
		Name:             "Rent",
		TargetMillicents: 1004000,
		Notes:            "2024-12 Monthly IPC: 0.4%: 1000.00€ -> 1004.00€",
	}
	if state != want {
		t.Errorf("GetCategory() = %+v, want %+v", state, want)
	}
}

func TestGetCategory_NullFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"category":{"id":"cat-1","name":"","goal_target":0,"note":null}}}`))
	})

	state, err := c.GetCategory(context.Background(), "cat-1")
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if state.Name != "Unknown Category" {
		t.Errorf("Name = %q, want %q", state.Name, "Unknown Category")
	}
	if state.TargetMillicents != 0 {
		t.Errorf("TargetMillicents = %d, want 0", state.TargetMillicents)
	}
	if state.Notes != "" {
		t.Errorf("Notes = %q, want empty", state.Notes)
	}
}

func TestGetCategory_NoGoalTarget(t *testing.T) {
	for name, body := range map[string]string{
		"null":    `{"data":{"category":{"id":"cat-1","name":"Rent","goal_target":null,"note":"x"}}}`,
		"missing": `{"data":{"category":{"id":"cat-1","name":"Rent"}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := c.GetCategory(context.Background(), "cat-1")
			if !errors.Is(err, core.ErrInvalidAmount) {
				t.Fatalf("GetCategory() error = %v, want ErrInvalidAmount", err)
			}
			if !strings.Contains(err.Error(), "no goal target") {
				t.Errorf("error = %q, want mention of missing goal target", err)
			}
		})
	}
}

func TestGetCategory_Deleted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"category":{"id":"cat-1","name":"Old","goal_target":1000,"deleted":true}}}`))
	})

	_, err := c.GetCategory(context.Background(), "cat-1")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetCategory() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	var got map[string]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"data":{"category":{"id":"cat-1"}}}`))
	})

	if err := c.UpdateCategory(context.Background(), "cat-1", 1006000, "entry\nold"); err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}
	if got["category"]["goal_target"] != float64(1006000) {
		t.Errorf("goal_target = %v, want 1006000", got["category"]["goal_target"])
	}
	if got["category"]["note"] != "entry\nold" {
		t.Errorf("note = %v", got["category"]["note"])
	}
}

func TestSetCategoryTargetAndNotes(t *testing.T) {
	var bodies []map[string]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var b map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies = append(bodies, b)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.SetCategoryTarget(context.Background(), "cat-1", 2004000); err != nil {
		t.Fatalf("SetCategoryTarget() error = %v", err)
	}
	if err := c.SetCategoryNotes(context.Background(), "cat-1", ""); err != nil {
		t.Fatalf("SetCategoryNotes() error = %v", err)
	}

	if len(bodies) != 2 {
		t.Fatalf("got %d requests, want 2", len(bodies))
	}
	if want := map[string]any{"goal_target": float64(2004000)}; !reflect.DeepEqual(bodies[0]["category"], want) {
		t.Errorf("first body = %v, want %v", bodies[0]["category"], want)
	}
	if want := map[string]any{"note": ""}; !reflect.DeepEqual(bodies[1]["category"], want) {
		t.Errorf("second body = %v, want %v", bodies[1]["category"], want)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, core.ErrNotFound},
		{http.StatusUnauthorized, core.ErrUnauthorized},
		{http.StatusForbidden, core.ErrUnauthorized},
		{http.StatusTooManyRequests, core.ErrServiceUnavailable},
		{http.StatusInternalServerError, core.ErrServiceUnavailable},
		{http.StatusServiceUnavailable, core.ErrServiceUnavailable},
		{http.StatusBadRequest, core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"id":"x","name":"err","detail":"went wrong"}}`))
			})
			_, err := c.GetCategory(context.Background(), "cat-1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("GetCategory() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), "went wrong") {
				t.Errorf("error = %q, want API detail", err)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{BaseURL: base, AccessToken: "t", BudgetID: "b"})
	err := c.SetCategoryTarget(context.Background(), "cat-1", 1000)
	if !errors.Is(err, core.ErrServiceUnavailable) {
		t.Errorf("SetCategoryTarget() error = %v, want ErrServiceUnavailable", err)
	}
}
