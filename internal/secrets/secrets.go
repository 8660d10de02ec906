// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files and
// from a dotenv file. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
// Dotenv entries use the upper-case form of the same names (OPENALEX_EMAIL
// for openalex-email).
//
// Supported keys: openalex-email, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Known key names.
const (
	OpenAlexEmail = "openalex-email"
	GeminiAPIKey  = "gemini-api-key"
)

// Secrets maps key-file names to values.
type Secrets map[string]string

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotenv parses a dotenv file without touching the process environment.
// Variable names are mapped back to key-file names. A missing file yields an
// empty map.
func LoadDotenv(path string) (Secrets, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading dotenv file %s: %w", path, err)
	}

	secrets := make(Secrets, len(env))
	for name, value := range env {
		value = strings.TrimSpace(value)
		if value != "" {
			secrets[KeyName(name)] = value
		}
	}
	return secrets, nil
}

// Resolve loads the secrets directory and the dotenv file. Directory files
// win over the process environment, which wins over the dotenv file.
func Resolve(dir, dotenvPath string, logger *zap.Logger) (Secrets, error) {
	files, err := Load(dir, logger)
	if err != nil {
		return nil, err
	}
	dotenv, err := LoadDotenv(dotenvPath)
	if err != nil {
		return nil, err
	}

	out := make(Secrets, len(files)+len(dotenv))
	for k, v := range dotenv {
		out[k] = v
	}
	for _, k := range []string{OpenAlexEmail, GeminiAPIKey} {
		if v := strings.TrimSpace(os.Getenv(EnvName(k))); v != "" {
			out[k] = v
		}
	}
	for k, v := range files {
		out[k] = v
	}
	return out, nil
}

// Get returns the value for key, or "" when absent.
func (s Secrets) Get(key string) string {
	return s[key]
}

// Keys returns the loaded key names in sorted order.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName converts a key-file name to its environment variable form.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// KeyName converts an environment variable name to its key-file form.
func KeyName(env string) string {
	return strings.ToLower(strings.ReplaceAll(env, "_", "-"))
}
