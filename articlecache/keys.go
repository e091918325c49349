package articlecache

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-article-cache/articles"
)

// Key grammar. Segments are joined with ':' so glob patterns can address a
// whole family or one author's slice of it.
const (
	itemPrefix  = "article:"
	indexPrefix = "article:index:"
	listPrefix  = "articles:list:"

	// AllSentinel stands in for an unset filter dimension.
	AllSentinel = "all"
)

// ItemKey returns the single-item key: article:<id>.
func ItemKey(id int64) string {
	return itemPrefix + strconv.FormatInt(id, 10)
}

// IndexKey returns the legacy bookkeeping key: article:index:<id>. It never
// collides with an item key because ids are numeric.
func IndexKey(id int64) string {
	return indexPrefix + strconv.FormatInt(id, 10)
}

// ListKey encodes page, limit and every filter dimension:
//
//	articles:list:page:<page>:limit:<limit>:author:<id|all>:after:<time|all>
//
// followed by :before:<time> only when PublishedBefore is set. Timestamps are
// rendered as RFC3339 in UTC after normalization, so equal instants in
// different zones share a key.
func ListKey(page, limit int, filters articles.Filters) string {
	filters = filters.Normalize()

	var b strings.Builder
	b.Grow(80)
	b.WriteString(listPrefix)
	b.WriteString("page:")
	b.WriteString(strconv.Itoa(page))
	b.WriteString(":limit:")
	b.WriteString(strconv.Itoa(limit))
	b.WriteString(":author:")
	b.WriteString(authorSegment(filters.AuthorID))
	b.WriteString(":after:")
	b.WriteString(timeSegment(filters.PublishedAfter))
	if filters.PublishedBefore != nil {
		b.WriteString(":before:")
		b.WriteString(timeSegment(filters.PublishedBefore))
	}
	return b.String()
}

// ListPattern matches every list key.
func ListPattern() string {
	return listPrefix + "*"
}

// AuthorListPattern matches list keys scoped to one author.
func AuthorListPattern(authorID int64) string {
	return listPrefix + "*:author:" + strconv.FormatInt(authorID, 10) + ":*"
}

// UnscopedListPattern matches list keys without an author filter.
func UnscopedListPattern() string {
	return listPrefix + "*:author:" + AllSentinel + ":*"
}

func authorSegment(id *int64) string {
	if id == nil {
		return AllSentinel
	}
	return strconv.FormatInt(*id, 10)
}

func timeSegment(t *time.Time) string {
	if t == nil {
		return AllSentinel
	}
	return t.UTC().Format(time.RFC3339Nano)
}
