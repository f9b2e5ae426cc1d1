package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/xy2yp/Artify/internal/promptapi"
	"github.com/xy2yp/Artify/internal/promptcache"
	"github.com/xy2yp/Artify/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	backfillConcurrency = 4
	maxImageBytes       = 10 << 20
)

// PromptBackend is the slice of the prompt backend client this usecase
// consumes.
type PromptBackend interface {
	ListPrompts(ctx context.Context, source string) ([]promptapi.Prompt, error)
	GetPrompt(ctx context.Context, id int) (promptapi.Prompt, error)
	CreatePrompt(ctx context.Context, data promptapi.PromptCreate) (promptapi.Prompt, error)
	UpdatePrompt(ctx context.Context, id int, data promptapi.PromptUpdate) (promptapi.Prompt, error)
	UpdatePromptImage(ctx context.Context, id int, image string) error
	DeletePrompt(ctx context.Context, id int) error
	TriggerSync(ctx context.Context) (promptapi.SyncResult, error)
	SyncStatus(ctx context.Context) (promptapi.SyncStatus, error)
}

var _ PromptBackend = (*promptapi.Client)(nil)

// PromptUseCase serves the prompt library through the tiered cache and
// funnels mutations to the backend, invalidating the cache after each
// successful one.
type PromptUseCase struct {
	backend    PromptBackend
	cache      *promptcache.TieredCache
	httpClient *http.Client
	logger     logger.Logger
}

func NewPromptUseCase(backend PromptBackend, cache *promptcache.TieredCache, l logger.Logger) *PromptUseCase {
	return &PromptUseCase{
		backend: backend,
		cache:   cache,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: l,
	}
}

// ListPrompts resolves a prompt list query through the cache tiers.
func (uc *PromptUseCase) ListPrompts(ctx context.Context, source string) ([]promptapi.Prompt, error) {
	key := promptcache.PromptsKey(source)

	payload, err := uc.cache.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		prompts, err := uc.backend.ListPrompts(ctx, source)
		if err != nil {
			return nil, err
		}
		return json.Marshal(prompts)
	})
	if err != nil {
		return nil, err
	}

	var prompts []promptapi.Prompt
	if err := json.Unmarshal(payload, &prompts); err != nil {
		return nil, fmt.Errorf("decode cached prompts: %w", err)
	}

	return prompts, nil
}

// GetPrompt reads one prompt straight from the backend; single records are
// not cached.
func (uc *PromptUseCase) GetPrompt(ctx context.Context, id int) (promptapi.Prompt, error) {
	return uc.backend.GetPrompt(ctx, id)
}

func (uc *PromptUseCase) CreatePrompt(ctx context.Context, data promptapi.PromptCreate) (promptapi.Prompt, error) {
	p, err := uc.backend.CreatePrompt(ctx, data)
	if err != nil {
		return promptapi.Prompt{}, err
	}

	uc.cache.InvalidateAll()

	return p, nil
}

func (uc *PromptUseCase) UpdatePrompt(ctx context.Context, id int, data promptapi.PromptUpdate) (promptapi.Prompt, error) {
	p, err := uc.backend.UpdatePrompt(ctx, id, data)
	if err != nil {
		return promptapi.Prompt{}, err
	}

	uc.cache.InvalidateAll()

	return p, nil
}

func (uc *PromptUseCase) UpdatePromptImage(ctx context.Context, id int, image string) error {
	if err := uc.backend.UpdatePromptImage(ctx, id, image); err != nil {
		return err
	}

	uc.cache.InvalidateAll()

	return nil
}

func (uc *PromptUseCase) DeletePrompt(ctx context.Context, id int) error {
	if err := uc.backend.DeletePrompt(ctx, id); err != nil {
		return err
	}

	uc.cache.InvalidateAll()

	return nil
}

// Sync asks the backend to resync its library from GitHub, then drops the
// whole cache so the next reads see the new collection.
func (uc *PromptUseCase) Sync(ctx context.Context) (promptapi.SyncResult, error) {
	res, err := uc.backend.TriggerSync(ctx)
	if err != nil {
		return promptapi.SyncResult{}, err
	}

	uc.cache.InvalidateAll()

	return res, nil
}

func (uc *PromptUseCase) SyncStatus(ctx context.Context) (promptapi.SyncStatus, error) {
	return uc.backend.SyncStatus(ctx)
}

// Preload warms the default cache key in the background. Failures are
// logged and swallowed; foreground work never waits on this.
func (uc *PromptUseCase) Preload() {
	go func() {
		if _, err := uc.ListPrompts(context.Background(), ""); err != nil {
			uc.logger.Warn("prompt preload failed", "error", err)
		}
	}()
}

// Warm walks the standard list keys, refetching only those whose entries
// have expired.
func (uc *PromptUseCase) Warm(ctx context.Context) {
	for _, source := range []string{"", promptapi.SourceGitHub, promptapi.SourceCustom} {
		if _, err := uc.ListPrompts(ctx, source); err != nil {
			uc.logger.Warn("prompt cache warm failed", "source", source, "error", err)
		}
	}
}

func (uc *PromptUseCase) CacheStats() promptcache.Stats {
	return uc.cache.Stats()
}

func (uc *PromptUseCase) InvalidateCache() {
	uc.cache.InvalidateAll()
}

// BackfillResult summarizes one image backfill run.
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// BackfillImages fills in missing inline images from each prompt's
// image_url and patches them back to the backend. Item failures are
// counted, not fatal. The cache is invalidated once at the end if
// anything changed.
func (uc *PromptUseCase) BackfillImages(ctx context.Context) (BackfillResult, error) {
	prompts, err := uc.backend.ListPrompts(ctx, "")
	if err != nil {
		return BackfillResult{}, err
	}

	var mu sync.Mutex
	res := BackfillResult{Scanned: len(prompts)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backfillConcurrency)

	for _, p := range prompts {
		if p.Image != "" || p.ImageURL == "" {
			res.Skipped++
			continue
		}

		g.Go(func() error {
			image, err := uc.fetchImageBase64(gctx, p.ImageURL)
			if err != nil {
				uc.logger.Warn("image backfill fetch failed", "id", p.ID, "url", p.ImageURL, "error", err)
				mu.Lock()
				res.Failed++
				mu.Unlock()
				return nil
			}

			if err := uc.backend.UpdatePromptImage(gctx, p.ID, image); err != nil {
				uc.logger.Warn("image backfill patch failed", "id", p.ID, "error", err)
				mu.Lock()
				res.Failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			res.Updated++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	if res.Updated > 0 {
		uc.cache.InvalidateAll()
	}

	uc.logger.Info("image backfill finished",
		"scanned", res.Scanned, "updated", res.Updated, "skipped", res.Skipped, "failed", res.Failed)

	return res, nil
}

func (uc *PromptUseCase) fetchImageBase64(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
