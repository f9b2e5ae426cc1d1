package promptapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xy2yp/Artify/pkg/logger"
)

func newTestClient(serverURL, token string) *Client {
	return NewClient(serverURL, 5*time.Second, token, logger.FromContext(context.Background()))
}

func TestListPrompts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/banana/prompts" {
			t.Errorf("path = %q, want /api/banana/prompts", r.URL.Path)
		}
		if got := r.URL.Query().Get("source"); got != "github" {
			t.Errorf("source = %q, want github", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}

		json.NewEncoder(w).Encode([]Prompt{
			{ID: 1, Title: "Sunset", Prompt: "a sunset", Mode: ModeGenerate, Source: SourceGitHub},
			{ID: 2, Title: "Portrait", Prompt: "a portrait", Mode: ModeEdit, Source: SourceGitHub},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "test-token")

	prompts, err := c.ListPrompts(context.Background(), "github")
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(prompts))
	}
	if prompts[0].ID != 1 || prompts[0].Title != "Sunset" {
		t.Errorf("prompt[0] = %+v", prompts[0])
	}
	if prompts[1].Mode != ModeEdit {
		t.Errorf("prompt[1].Mode = %q, want %q", prompts[1].Mode, ModeEdit)
	}
}

func TestListPrompts_NoSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Authorization header set without a token")
		}
		json.NewEncoder(w).Encode([]Prompt{})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	if _, err := c.ListPrompts(context.Background(), ""); err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
}

func TestGetPrompt_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Prompt not found"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.GetPrompt(context.Background(), 42)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("GetPrompt error = %v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", reqErr.Status)
	}
	if reqErr.Body != `{"detail":"Prompt not found"}` {
		t.Errorf("Body = %q", reqErr.Body)
	}
}

func TestCreatePrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var body PromptCreate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.Title != "New" || body.Prompt != "a prompt" {
			t.Errorf("request body = %+v", body)
		}

		json.NewEncoder(w).Encode(Prompt{ID: 7, Title: body.Title, Prompt: body.Prompt, Source: SourceCustom})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	p, err := c.CreatePrompt(context.Background(), PromptCreate{Title: "New", Prompt: "a prompt"})
	if err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}
	if p.ID != 7 || p.Source != SourceCustom {
		t.Errorf("created prompt = %+v", p)
	}
}

func TestUpdatePromptImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %q, want PATCH", r.Method)
		}
		if r.URL.Path != "/api/banana/prompts/7/image" {
			t.Errorf("path = %q, want /api/banana/prompts/7/image", r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["image"] != "data:image/png;base64,AAAA" {
			t.Errorf("image field = %q", body["image"])
		}

		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	if err := c.UpdatePromptImage(context.Background(), 7, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("UpdatePromptImage failed: %v", err)
	}
}

func TestDeletePrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/api/banana/prompts/3" {
			t.Errorf("path = %q, want /api/banana/prompts/3", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "tok")

	if err := c.DeletePrompt(context.Background(), 3); err != nil {
		t.Fatalf("DeletePrompt failed: %v", err)
	}
}

func TestTriggerSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/banana/sync" {
			t.Errorf("request = %s %s, want POST /api/banana/sync", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(SyncResult{Success: true, Message: "synced", Count: 12})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	res, err := c.TriggerSync(context.Background())
	if err != nil {
		t.Fatalf("TriggerSync failed: %v", err)
	}
	if !res.Success || res.Count != 12 {
		t.Errorf("sync result = %+v", res)
	}
}

func TestSyncStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/banana/sync/status" {
			t.Errorf("path = %q, want /api/banana/sync/status", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SyncStatus{ID: 1, Status: "success", Count: 12, SyncedAt: "2026-01-01T00:00:00"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	st, err := c.SyncStatus(context.Background())
	if err != nil {
		t.Fatalf("SyncStatus failed: %v", err)
	}
	if st.Status != "success" || st.SyncedAt != "2026-01-01T00:00:00" {
		t.Errorf("sync status = %+v", st)
	}
}

func TestTransportErrorWrapsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.ListPrompts(context.Background(), "")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("error = %v, want ErrUnreachable", err)
	}
}

func TestServerErrorStatusPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")

	_, err := c.TriggerSync(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", reqErr.Status)
	}
}
