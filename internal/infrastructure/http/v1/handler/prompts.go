package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xy2yp/Artify/internal/promptapi"
)

type createPromptRequest struct {
	Title    string `json:"title" validate:"required"`
	Prompt   string `json:"prompt" validate:"required"`
	Mode     string `json:"mode" validate:"omitempty,oneof=generate edit"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Link     string `json:"link" validate:"omitempty,url"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type updatePromptRequest struct {
	Title    *string `json:"title"`
	Prompt   *string `json:"prompt"`
	Mode     *string `json:"mode" validate:"omitempty,oneof=generate edit"`
	Category *string `json:"category"`
	Author   *string `json:"author"`
	Link     *string `json:"link" validate:"omitempty,url"`
	Image    *string `json:"image"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type updatePromptImageRequest struct {
	Image string `json:"image" validate:"required"`
}

func (h *Handler) ListPrompts(c *gin.Context) {
	l := loggerFrom(c)

	source := c.Query("source")
	if source != "" && source != promptapi.SourceGitHub && source != promptapi.SourceCustom {
		h.RespondWithJSON(c, http.StatusBadRequest, "source must be github or custom", nil)
		return
	}

	prompts, err := h.promptUseCase.ListPrompts(c.Request.Context(), source)
	if err != nil {
		l.Error("failed to list prompts", "source", source, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "got prompts", prompts)
}

func (h *Handler) GetPrompt(c *gin.Context) {
	l := loggerFrom(c)

	id, ok := h.promptID(c)
	if !ok {
		return
	}

	p, err := h.promptUseCase.GetPrompt(c.Request.Context(), id)
	if err != nil {
		l.Error("failed to get prompt", "id", id, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "got prompt", p)
}

func (h *Handler) CreatePrompt(c *gin.Context) {
	l := loggerFrom(c)

	var req createPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	p, err := h.promptUseCase.CreatePrompt(c.Request.Context(), promptapi.PromptCreate{
		Title:    req.Title,
		Prompt:   req.Prompt,
		Mode:     req.Mode,
		Category: req.Category,
		Author:   req.Author,
		Link:     req.Link,
		Image:    req.Image,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		l.Error("failed to create prompt", "title", req.Title, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusCreated, "prompt created", p)
}

func (h *Handler) UpdatePrompt(c *gin.Context) {
	l := loggerFrom(c)

	id, ok := h.promptID(c)
	if !ok {
		return
	}

	var req updatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	p, err := h.promptUseCase.UpdatePrompt(c.Request.Context(), id, promptapi.PromptUpdate{
		Title:    req.Title,
		Prompt:   req.Prompt,
		Mode:     req.Mode,
		Category: req.Category,
		Author:   req.Author,
		Link:     req.Link,
		Image:    req.Image,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		l.Error("failed to update prompt", "id", id, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "prompt updated", p)
}

func (h *Handler) UpdatePromptImage(c *gin.Context) {
	l := loggerFrom(c)

	id, ok := h.promptID(c)
	if !ok {
		return
	}

	var req updatePromptImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	if err := h.promptUseCase.UpdatePromptImage(c.Request.Context(), id, req.Image); err != nil {
		l.Error("failed to update prompt image", "id", id, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "prompt image updated", nil)
}

func (h *Handler) DeletePrompt(c *gin.Context) {
	l := loggerFrom(c)

	id, ok := h.promptID(c)
	if !ok {
		return
	}

	if err := h.promptUseCase.DeletePrompt(c.Request.Context(), id); err != nil {
		l.Error("failed to delete prompt", "id", id, "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "prompt deleted", nil)
}

func (h *Handler) SyncPrompts(c *gin.Context) {
	l := loggerFrom(c)

	res, err := h.promptUseCase.Sync(c.Request.Context())
	if err != nil {
		l.Error("failed to sync prompts", "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "sync triggered", res)
}

func (h *Handler) SyncStatus(c *gin.Context) {
	l := loggerFrom(c)

	st, err := h.promptUseCase.SyncStatus(c.Request.Context())
	if err != nil {
		l.Error("failed to get sync status", "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "got sync status", st)
}

func (h *Handler) BackfillImages(c *gin.Context) {
	l := loggerFrom(c)

	res, err := h.promptUseCase.BackfillImages(c.Request.Context())
	if err != nil {
		l.Error("failed to backfill prompt images", "error", err)
		h.respondWithError(c, err)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "backfill finished", res)
}

func (h *Handler) promptID(c *gin.Context) (int, bool) {
	strID := c.Param("id")

	id, err := strconv.Atoi(strID)
	if err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, "id should be integer", nil)
		return 0, false
	}

	return id, true
}
