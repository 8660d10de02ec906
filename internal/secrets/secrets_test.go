// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "gemini-api-key", "  gk_abc123  \n")
				writeFile(t, dir, "openalex-email", "user@example.com\n")
				return dir
			},
			want: Secrets{
				"gemini-api-key": "gk_abc123",
				"openalex-email": "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openalex-email", "me@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{"openalex-email": "me@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "gemini-api-key", "gk_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{"gemini-api-key": "gk_real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "# local settings\nOPENALEX_EMAIL=dev@example.com\nGEMINI_API_KEY=\"gk 42\"\nEMPTY=\n")

	got, err := LoadDotenv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, Secrets{
		"openalex-email": "dev@example.com",
		"gemini-api-key": "gk 42",
	}, got)

	got, err = LoadDotenv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	secretsDir := filepath.Join(dir, ".secrets")
	require.NoError(t, os.Mkdir(secretsDir, 0o755))
	writeFile(t, dir, ".env", "OPENALEX_EMAIL=dotenv@example.com\nGEMINI_API_KEY=from-dotenv\n")

	t.Setenv("OPENALEX_EMAIL", "")
	t.Setenv("GEMINI_API_KEY", "")

	got, err := Resolve(secretsDir, filepath.Join(dir, ".env"), nil)
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", got.Get(OpenAlexEmail))

	t.Setenv("OPENALEX_EMAIL", "env@example.com")
	got, err = Resolve(secretsDir, filepath.Join(dir, ".env"), nil)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", got.Get(OpenAlexEmail))
	assert.Equal(t, "from-dotenv", got.Get(GeminiAPIKey))

	writeFile(t, secretsDir, OpenAlexEmail, "file@example.com")
	got, err = Resolve(secretsDir, filepath.Join(dir, ".env"), nil)
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", got.Get(OpenAlexEmail))
	assert.Equal(t, []string{GeminiAPIKey, OpenAlexEmail}, got.Keys())
}

func TestNameConversion(t *testing.T) {
	assert.Equal(t, "OPENALEX_EMAIL", EnvName(OpenAlexEmail))
	assert.Equal(t, "gemini-api-key", KeyName("GEMINI_API_KEY"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
