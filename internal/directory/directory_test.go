package directory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epsilonstar-02/AlphaTrack/internal/directory"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"msft": "Microsoft Corporation", "AAPL": "Apple Inc.", "googl": "Alphabet Inc."}`)

	dir, err := directory.Load(path)
	require.NoError(t, err)

	// Entries come back canonicalized and sorted by symbol.
	companies := dir.Companies()
	require.Equal(t, []directory.Company{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "GOOGL", Name: "Alphabet Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
	}, companies)

	name, ok := dir.Name("aapl")
	require.True(t, ok)
	require.Equal(t, "Apple Inc.", name)

	_, ok = dir.Name("TSLA")
	require.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := directory.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `["not", "a", "map"]`)
	_, err := directory.Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty company name", content: `{"AAPL": ""}`},
		{name: "symbol too long", content: `{"TOOLONG": "Too Long Inc."}`},
		{name: "non alpha symbol", content: `{"AB1": "Digits Inc."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := directory.Load(writeFile(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	dir := directory.Empty()
	require.Empty(t, dir.Companies())
	_, ok := dir.Name("AAPL")
	require.False(t, ok)
}
