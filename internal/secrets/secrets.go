// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from a dotenv file. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key names: openai-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

const (
	OpenAIKey = "openai-api-key"
	GeminiKey = "gemini-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
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
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv reads a dotenv file and returns its entries under key-file
// names, so OPENAI_API_KEY becomes openai-api-key. A missing file yields an
// empty map.
func LoadDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	secrets := make(map[string]string, len(env))
	for k, v := range env {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		secrets[keyName(k)] = v
	}
	return secrets, nil
}

// LoadAll merges the dotenv file and the secrets directory. Directory files
// win over dotenv entries with the same name.
func LoadAll(dir, dotenvPath string) (map[string]string, error) {
	merged, err := LoadDotEnv(dotenvPath)
	if err != nil {
		return nil, err
	}
	files, err := Load(dir)
	if err != nil {
		return nil, err
	}
	for k, v := range files {
		merged[k] = v
	}
	return merged, nil
}

// KeyFor returns the secret name holding the API key for provider, or ""
// when the provider needs none.
func KeyFor(provider types.AIProvider) string {
	switch provider {
	case types.ProviderOpenAI:
		return OpenAIKey
	case types.ProviderGemini:
		return GeminiKey
	default:
		return ""
	}
}

// Lookup returns the named secret, falling back to the matching environment
// variable (openai-api-key reads OPENAI_API_KEY).
func Lookup(secrets map[string]string, name string) string {
	if name == "" {
		return ""
	}
	if v := secrets[name]; v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvName(name)))
}

// EnvName converts a key-file name to its environment variable name.
func EnvName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func keyName(env string) string {
	return strings.ToLower(strings.ReplaceAll(env, "_", "-"))
}
