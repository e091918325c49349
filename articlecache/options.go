package articlecache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Metric families used as labels on the cache counters.
const (
	FamilyItem    = "item"
	FamilyList    = "list"
	FamilyArticle = "article"
)

// Options tunes the article cache layer.
type Options struct {
	// ItemTTL bounds the staleness of a single-article entry.
	ItemTTL time.Duration `yaml:"item_ttl"`

	// ListTTL bounds the staleness of a list entry. Lists are more write
	// sensitive than items, so this is shorter.
	ListTTL time.Duration `yaml:"list_ttl"`

	// LegacyIndexCleanup also deletes article:index:<id> on every write, for
	// keyspaces still holding entries from the index-based scheme.
	LegacyIndexCleanup bool `yaml:"legacy_index_cleanup"`
}

// DefaultOptions returns 300s item and 60s list TTLs.
func DefaultOptions() Options {
	return Options{
		ItemTTL: 300 * time.Second,
		ListTTL: 60 * time.Second,
	}
}

// Validate requires both TTLs to be positive.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ItemTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&o.ListTTL, validation.Required, validation.Min(time.Second)),
	)
}
