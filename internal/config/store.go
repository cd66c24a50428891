// Package config persists the CLI settings (API key, base URL) and resolves
// them against environment variables and built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/data2crm/data2crm-cli/internal/derrors"
)

const (
	// AppName namespaces the config directory
	AppName = "data2crm-cli"
	// FileName is the default config file name inside the app directory
	FileName = "config.json"

	// KeyAPIKey is the stored key holding the API credential
	KeyAPIKey = "apiKey"
	// KeyBaseURL is the stored key holding the API endpoint
	KeyBaseURL = "baseUrl"

	// EnvAPIKey is the fallback for a missing stored API key
	EnvAPIKey = "DATA2CRM_API_KEY"
	// EnvBaseURL is the fallback for a missing stored base URL
	EnvBaseURL = "DATA2CRM_BASE_URL"
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "DATA2CRM_CONFIG"

	// DefaultBaseURL is used when neither the store nor the environment set one
	DefaultBaseURL = "https://api.data2crm.com/v2"

	// SignupURL is where users obtain an API key
	SignupURL = "https://www.data2crm.com/"
	// DocsURL points at the remote API documentation
	DocsURL = "https://www.data2crm.com/api/"
)

// keys are flat: koanf treats "." as a path separator
var keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Store is a persistent string-to-string mapping backed by a single file.
// The file format follows the extension (.json, .yaml, .yml, .toml).
type Store struct {
	path   string
	parser koanf.Parser
	k      *koanf.Koanf
}

// DefaultPath returns $XDG_CONFIG_HOME/data2crm-cli/config.json,
// falling back to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, AppName, FileName), nil
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:   path,
		parser: parser,
		k:      koanf.New("."),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func parserFor(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return json.Parser(), nil
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, derrors.NewConfigurationError("", fmt.Sprintf("unsupported config format %q (use .json, .yaml or .toml)", ext), nil)
	}
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored value for key
func (s *Store) Get(key string) (string, bool) {
	if !s.k.Exists(key) {
		return "", false
	}
	return s.k.String(key), true
}

// Set stores value under key and writes the file before returning
func (s *Store) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	// reject values that would make the file unreadable on the next load
	candidate := s.k.All()
	candidate[key] = value
	if err := validate(s.path, candidate); err != nil {
		return derrors.NewValidationError(key, err.Error(), nil)
	}

	if err := s.k.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return s.persist()
}

// Delete removes a single key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if !s.k.Exists(key) {
		return nil
	}
	s.k.Delete(key)
	return s.persist()
}

// List returns a snapshot of every stored key
func (s *Store) List() map[string]string {
	out := make(map[string]string)
	for _, key := range s.k.Keys() {
		out[key] = s.k.String(key)
	}
	return out
}

// Keys returns the stored keys in sorted order
func (s *Store) Keys() []string {
	keys := s.k.Keys()
	sort.Strings(keys)
	return keys
}

// Clear removes every stored key, reverting to environment and defaults
func (s *Store) Clear() error {
	s.k = koanf.New(".")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to remove %s", s.path), err)
	}
	return nil
}

// APIKey resolves the credential: stored value, then DATA2CRM_API_KEY.
// It is the only place where a missing setting is an error.
func (s *Store) APIKey() (string, error) {
	if v, ok := s.Get(KeyAPIKey); ok && v != "" {
		return v, nil
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v, nil
	}
	return "", derrors.NewConfigurationError(KeyAPIKey, MissingAPIKeyMessage, nil)
}

// BaseURL resolves the endpoint: stored value, then DATA2CRM_BASE_URL,
// then DefaultBaseURL. It never returns an empty string.
func (s *Store) BaseURL() string {
	if v, ok := s.Get(KeyBaseURL); ok && v != "" {
		return v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Resolve returns the value the CLI would use for key. apiKey and baseUrl
// fall back to the environment (and baseUrl to DefaultBaseURL); other keys
// only exist when stored with a non-empty value.
func (s *Store) Resolve(key string) (string, bool) {
	switch key {
	case KeyAPIKey:
		v, err := s.APIKey()
		return v, err == nil
	case KeyBaseURL:
		return s.BaseURL(), true
	}
	v, ok := s.Get(key)
	return v, ok && v != ""
}

// MissingAPIKeyMessage tells the user how to provide a key
const MissingAPIKeyMessage = "API key not configured. Set it with: data2crm config set " + KeyAPIKey + " <your-api-key>\n" +
	"Or set " + EnvAPIKey + " environment variable.\n" +
	"Get your API key at: " + SignupURL

// ValidateKey rejects keys that cannot be stored as a flat entry
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return derrors.NewValidationError("key", fmt.Sprintf("invalid config key %q: use letters, digits, '-' or '_'", key), nil)
	}
	return nil
}

// load reads the store from disk
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to read %s", s.path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	raw, err := s.parser.Unmarshal(data)
	if err != nil {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to parse %s", s.path), err)
	}
	if err := validate(s.path, raw); err != nil {
		return err
	}

	if err := s.k.Load(rawbytes.Provider(data), s.parser); err != nil {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to load %s", s.path), err)
	}
	return nil
}

// persist writes the store to disk through a temp file and rename
func (s *Store) persist() error {
	data, err := s.k.Marshal(s.parser)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to create %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return derrors.NewConfigurationError("", "failed to write config", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return derrors.NewConfigurationError("", "failed to write config", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return derrors.NewConfigurationError("", "failed to write config", err)
	}
	if err := tmp.Close(); err != nil {
		return derrors.NewConfigurationError("", "failed to write config", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return derrors.NewConfigurationError("", "failed to write config", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return derrors.NewConfigurationError("", fmt.Sprintf("failed to write %s", s.path), err)
	}
	return nil
}
