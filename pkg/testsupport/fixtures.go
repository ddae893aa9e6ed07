// Package testsupport holds helpers shared by the module's tests: fixture
// and golden file loading and throwaway SQLite databases.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to "1".
const UpdateGoldenEnv = "STOREFRONT_UPDATE_GOLDEN"

// FixturePath returns testdata/<name>, relative to the test package directory.
func FixturePath(name string) string {
	return filepath.Join("testdata", name)
}

// GoldenPath returns testdata/golden/<name>.
func GoldenPath(name string) string {
	return filepath.Join("testdata", "golden", name)
}

// LoadFixture reads a fixture file or fails the test.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON decodes a JSON fixture into dest or fails the test.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// CompareGoldenJSON marshals actual as indented JSON and compares it with
// the golden file at path. A missing golden file, or UpdateGoldenEnv=1,
// writes the file instead.
func CompareGoldenJSON(t testing.TB, path string, actual any) {
	t.Helper()

	got, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON for golden file %s: %v", path, err)
	}
	got = append(got, '\n')

	want, err := os.ReadFile(path)
	if os.Getenv(UpdateGoldenEnv) == "1" || os.IsNotExist(err) {
		writeGolden(t, path, got)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if !bytes.Equal(got, want) {
		t.Errorf("output mismatch for %s:\nwant:\n%s\ngot:\n%s", path, want, got)
	}
}

func writeGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file %s: %v", path, err)
	}
	t.Logf("wrote golden file %s", path)
}
