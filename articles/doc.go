// Package articles holds the article domain types shared by the cache layer
// and the relational store: the Article and User records, the closed set of
// list filters, the paginated result envelope and the Store contract that the
// authoritative data store implements.
//
// Timestamps are normalized to UTC with microsecond precision so a value read
// straight from the database and one decoded from a cached JSON payload
// compare equal.
package articles
