package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-article-cache/articles"
)

// Seed is the content of a seed fixture: users first, then their articles.
type Seed struct {
	Users    []articles.User    `json:"users"`
	Articles []articles.Article `json:"articles"`
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest interface{}) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadSeed loads a Seed fixture.
func LoadSeed(t testing.TB, path string) Seed {
	t.Helper()

	var seed Seed
	LoadFixtureJSON(t, path, &seed)
	for i, a := range seed.Articles {
		seed.Articles[i] = a.Normalize()
	}
	return seed
}

// WriteGolden writes test output to a golden file.
// This should typically only be called when updating golden files.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual data with expected data from a golden file.
// If the golden file doesn't exist, it creates one with the actual data.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Logf("Golden file %s does not exist, creating it", path)
			WriteGolden(t, path, actual)
			return
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// TempFile creates a temporary file with the given content, removed when the
// test ends.
func TempFile(t testing.TB, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
