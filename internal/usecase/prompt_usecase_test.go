package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/xy2yp/Artify/internal/promptapi"
	"github.com/xy2yp/Artify/internal/promptcache"
	"github.com/xy2yp/Artify/internal/repository/entrystore"
	"github.com/xy2yp/Artify/pkg/logger"
)

type fakeBackend struct {
	mu        sync.Mutex
	prompts   []promptapi.Prompt
	listCalls int
	listErr   error
	mutErr    error
	patched   map[int]string
	syncCalls int
}

func newFakeBackend(prompts ...promptapi.Prompt) *fakeBackend {
	return &fakeBackend{prompts: prompts, patched: make(map[int]string)}
}

func (f *fakeBackend) ListPrompts(ctx context.Context, source string) ([]promptapi.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.prompts, nil
}

func (f *fakeBackend) GetPrompt(ctx context.Context, id int) (promptapi.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prompts {
		if p.ID == id {
			return p, nil
		}
	}
	return promptapi.Prompt{}, fmt.Errorf("prompt %d not found", id)
}

func (f *fakeBackend) CreatePrompt(ctx context.Context, data promptapi.PromptCreate) (promptapi.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return promptapi.Prompt{}, f.mutErr
	}
	return promptapi.Prompt{ID: 99, Title: data.Title, Prompt: data.Prompt, Source: promptapi.SourceCustom}, nil
}

func (f *fakeBackend) UpdatePrompt(ctx context.Context, id int, data promptapi.PromptUpdate) (promptapi.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return promptapi.Prompt{}, f.mutErr
	}
	return promptapi.Prompt{ID: id}, nil
}

func (f *fakeBackend) UpdatePromptImage(ctx context.Context, id int, image string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return f.mutErr
	}
	f.patched[id] = image
	return nil
}

func (f *fakeBackend) DeletePrompt(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutErr
}

func (f *fakeBackend) TriggerSync(ctx context.Context) (promptapi.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	if f.mutErr != nil {
		return promptapi.SyncResult{}, f.mutErr
	}
	return promptapi.SyncResult{Success: true, Count: len(f.prompts)}, nil
}

func (f *fakeBackend) SyncStatus(ctx context.Context) (promptapi.SyncStatus, error) {
	return promptapi.SyncStatus{ID: 1, Status: "success"}, nil
}

func (f *fakeBackend) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeBackend) patchedImage(id int) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.patched[id]
	return img, ok
}

func newTestUseCase(backend *fakeBackend) *PromptUseCase {
	l := logger.FromContext(context.Background())
	cache := promptcache.New(entrystore.NewMemoryStore(), time.Hour, l)
	return NewPromptUseCase(backend, cache, l)
}

func TestListPrompts_CachesResult(t *testing.T) {
	backend := newFakeBackend(
		promptapi.Prompt{ID: 1, Title: "One", Prompt: "first", Source: promptapi.SourceGitHub},
		promptapi.Prompt{ID: 2, Title: "Two", Prompt: "second", Source: promptapi.SourceCustom},
	)
	uc := newTestUseCase(backend)

	for i := 0; i < 3; i++ {
		prompts, err := uc.ListPrompts(context.Background(), "")
		if err != nil {
			t.Fatalf("ListPrompts %d failed: %v", i, err)
		}
		if len(prompts) != 2 || prompts[0].ID != 1 || prompts[1].Title != "Two" {
			t.Fatalf("ListPrompts %d = %+v", i, prompts)
		}
	}

	if got := backend.listCallCount(); got != 1 {
		t.Errorf("backend list calls = %d, want 1", got)
	}
}

func TestListPrompts_SourcesCachedSeparately(t *testing.T) {
	backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
	uc := newTestUseCase(backend)

	for _, source := range []string{"", "github", "github", ""} {
		if _, err := uc.ListPrompts(context.Background(), source); err != nil {
			t.Fatalf("ListPrompts(%q) failed: %v", source, err)
		}
	}

	if got := backend.listCallCount(); got != 2 {
		t.Errorf("backend list calls = %d, want 2 (one per distinct source)", got)
	}
}

func TestCreatePrompt_InvalidatesCache(t *testing.T) {
	backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
	uc := newTestUseCase(backend)

	if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}

	if _, err := uc.CreatePrompt(context.Background(), promptapi.PromptCreate{Title: "New", Prompt: "p"}); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if got := backend.listCallCount(); got != 2 {
		t.Errorf("backend list calls = %d, want 2 (cache dropped after create)", got)
	}
}

func TestCreatePrompt_FailureKeepsCache(t *testing.T) {
	backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
	uc := newTestUseCase(backend)

	before, err := uc.ListPrompts(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}

	backend.mutErr = errors.New("backend down")
	if _, err := uc.CreatePrompt(context.Background(), promptapi.PromptCreate{Title: "New", Prompt: "p"}); err == nil {
		t.Fatal("CreatePrompt succeeded, want error")
	}

	after, err := uc.ListPrompts(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if got := backend.listCallCount(); got != 1 {
		t.Errorf("backend list calls = %d, want 1 (cache must survive failed mutation)", got)
	}
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Errorf("cached list changed after failed mutation: %+v vs %+v", after, before)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	title := "T"
	mutations := []struct {
		name string
		op   func(uc *PromptUseCase) error
	}{
		{"update", func(uc *PromptUseCase) error {
			_, err := uc.UpdatePrompt(context.Background(), 1, promptapi.PromptUpdate{Title: &title})
			return err
		}},
		{"update_image", func(uc *PromptUseCase) error {
			return uc.UpdatePromptImage(context.Background(), 1, "data:image/png;base64,AA")
		}},
		{"delete", func(uc *PromptUseCase) error {
			return uc.DeletePrompt(context.Background(), 1)
		}},
		{"sync", func(uc *PromptUseCase) error {
			_, err := uc.Sync(context.Background())
			return err
		}},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
			uc := newTestUseCase(backend)

			if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
				t.Fatalf("ListPrompts failed: %v", err)
			}
			if err := tt.op(uc); err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}
			if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
				t.Fatalf("ListPrompts failed: %v", err)
			}

			if got := backend.listCallCount(); got != 2 {
				t.Errorf("backend list calls = %d, want 2", got)
			}
		})
	}
}

func TestWarm_FillsStandardKeys(t *testing.T) {
	backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
	uc := newTestUseCase(backend)

	uc.Warm(context.Background())
	if got := backend.listCallCount(); got != 3 {
		t.Fatalf("backend list calls after warm = %d, want 3", got)
	}

	// A second warm within the TTL is served from cache.
	uc.Warm(context.Background())
	if got := backend.listCallCount(); got != 3 {
		t.Errorf("backend list calls after second warm = %d, want 3", got)
	}
}

func TestWarm_SwallowsFailures(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errors.New("backend down")
	uc := newTestUseCase(backend)

	uc.Warm(context.Background())

	if got := backend.listCallCount(); got != 3 {
		t.Errorf("backend list calls = %d, want 3 (every source attempted)", got)
	}
}

func TestPreload_WarmsInBackground(t *testing.T) {
	backend := newFakeBackend(promptapi.Prompt{ID: 1, Title: "One"})
	uc := newTestUseCase(backend)

	uc.Preload()

	deadline := time.Now().Add(2 * time.Second)
	for uc.CacheStats().Entries == 0 {
		if time.Now().After(deadline) {
			t.Fatal("preload did not warm the cache in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if got := backend.listCallCount(); got != 1 {
		t.Errorf("backend list calls = %d, want 1", got)
	}
}

func TestBackfillImages(t *testing.T) {
	imageBody := []byte("fake png bytes")
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/good.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write(imageBody)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer imageServer.Close()

	backend := newFakeBackend(
		promptapi.Prompt{ID: 1, Image: "data:image/png;base64,AA", ImageURL: imageServer.URL + "/good.png"},
		promptapi.Prompt{ID: 2},
		promptapi.Prompt{ID: 3, ImageURL: imageServer.URL + "/good.png"},
		promptapi.Prompt{ID: 4, ImageURL: imageServer.URL + "/missing.png"},
	)
	uc := newTestUseCase(backend)

	res, err := uc.BackfillImages(context.Background())
	if err != nil {
		t.Fatalf("BackfillImages failed: %v", err)
	}

	want := BackfillResult{Scanned: 4, Updated: 1, Skipped: 2, Failed: 1}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}

	img, ok := backend.patchedImage(3)
	if !ok {
		t.Fatal("prompt 3 was not patched")
	}
	wantImg := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBody)
	if img != wantImg {
		t.Errorf("patched image = %q, want %q", img, wantImg)
	}
	if _, ok := backend.patchedImage(1); ok {
		t.Error("prompt 1 already had an image and must not be patched")
	}
}

func TestBackfillImages_ListErrorPropagates(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errors.New("backend down")
	uc := newTestUseCase(backend)

	if _, err := uc.BackfillImages(context.Background()); err == nil {
		t.Fatal("BackfillImages succeeded, want error")
	}
}
