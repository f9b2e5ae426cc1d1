package promptcache

import "fmt"

const (
	// CacheVersion is the version prefix for cache keys.
	CacheVersion = "v1"

	// AllPromptsKey is the cache key for the unfiltered prompt list.
	AllPromptsKey = CacheVersion + ":prompts:all"

	// SourcePromptsKeyPattern formats cache keys for source-filtered prompt lists.
	SourcePromptsKeyPattern = CacheVersion + ":prompts:source:%s"
)

func SourcePromptsKey(source string) string {
	return fmt.Sprintf(SourcePromptsKeyPattern, source)
}

// PromptsKey picks the cache key for a prompt list query.
func PromptsKey(source string) string {
	if source == "" {
		return AllPromptsKey
	}
	return SourcePromptsKey(source)
}
