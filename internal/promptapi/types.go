package promptapi

const (
	ModeGenerate = "generate"
	ModeEdit     = "edit"

	SourceGitHub = "github"
	SourceCustom = "custom"
)

// Prompt is one prompt-library record as the backend serves it. Timestamps
// stay opaque strings; the workbench displays them without computing on them.
type Prompt struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Prompt    string `json:"prompt"`
	Mode      string `json:"mode"`
	Category  string `json:"category,omitempty"`
	Author    string `json:"author,omitempty"`
	Link      string `json:"link,omitempty"`
	Image     string `json:"image,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

type PromptCreate struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Mode     string `json:"mode,omitempty"`
	Category string `json:"category,omitempty"`
	Author   string `json:"author,omitempty"`
	Link     string `json:"link,omitempty"`
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// PromptUpdate carries only the fields to change. Pointers distinguish
// "leave alone" from "set to empty".
type PromptUpdate struct {
	Title    *string `json:"title,omitempty"`
	Prompt   *string `json:"prompt,omitempty"`
	Mode     *string `json:"mode,omitempty"`
	Category *string `json:"category,omitempty"`
	Author   *string `json:"author,omitempty"`
	Link     *string `json:"link,omitempty"`
	Image    *string `json:"image,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type SyncStatus struct {
	ID       int    `json:"id"`
	SyncedAt string `json:"synced_at"`
	Count    int    `json:"count"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}
