// Package podcfg resolves the podops configuration: the provider API key and
// the operational parameters used by pod lifecycle operations.
//
// Resolution precedence, lowest to highest:
//  1. built-in defaults
//  2. config file contents (KEY=VALUE lines, or YAML for .yml/.yaml paths)
//  3. explicit overrides
package podcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/podops/podops/domain/model"
	"github.com/podops/podops/internal/naming"
)

// APIKeyEnv is the environment variable holding the provider API key.
const APIKeyEnv = "RUNPOD_API_KEY"

// Well-known option keys.
const (
	KeyMaxGPUPrice       = "MAX_GPU_PRICE"
	KeyContainerDisk     = "CONTAINER_DISK"
	KeyInactivityTimeout = "INACTIVITY_TIMEOUT_SECONDS"
	KeyVolumeMountPath   = "VOLUME_MOUNT_PATH"
	KeyGPUCount          = "GPU_COUNT"
	KeySupportPublicIP   = "SUPPORT_PUBLIC_IP"
	KeyStartSSH          = "START_SSH"
	KeyTemplateID        = "TEMPLATE_ID"
	KeyImageNameBase     = "IMAGE_NAME_BASE"
	KeyNetworkVolumeID   = "NETWORK_VOLUME_ID"
	KeyAPIEndpoint       = "API_ENDPOINT"
)

func defaults() map[string]string {
	return map[string]string{
		KeyMaxGPUPrice:       "0.30",
		KeyContainerDisk:     "20",
		KeyInactivityTimeout: "3600",
		KeyVolumeMountPath:   "/workspace",
		KeyGPUCount:          "1",
		KeySupportPublicIP:   "true",
		KeyStartSSH:          "true",
	}
}

// Config holds the resolved option mapping and the required API key.
type Config struct {
	ProjectName string
	APIKey      string

	options map[string]string
}

// Option customizes config resolution.
type Option func(*loadParams)

type loadParams struct {
	apiKey     string
	configFile string
	overrides  map[string]string
}

// WithAPIKey supplies the API key explicitly, bypassing the environment.
func WithAPIKey(key string) Option {
	return func(p *loadParams) { p.apiKey = key }
}

// WithConfigFile supplies a config file path to merge over the defaults.
func WithConfigFile(path string) Option {
	return func(p *loadParams) { p.configFile = path }
}

// WithOverrides supplies explicit option overrides (highest precedence).
func WithOverrides(kv map[string]string) Option {
	return func(p *loadParams) {
		if p.overrides == nil {
			p.overrides = map[string]string{}
		}
		for k, v := range kv {
			p.overrides[k] = v
		}
	}
}

// New resolves a Config for the given project name. It fails with
// model.ErrAPIKeyMissing when no API key is available, before any network
// call can be attempted.
func New(projectName string, opts ...Option) (*Config, error) {
	var p loadParams
	for _, o := range opts {
		o(&p)
	}

	apiKey := p.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, model.ErrAPIKeyMissing
	}

	options := defaults()
	if p.configFile != "" {
		if err := mergeFile(options, p.configFile); err != nil {
			return nil, err
		}
	}
	for k, v := range p.overrides {
		options[k] = v
	}

	return &Config{
		ProjectName: projectName,
		APIKey:      apiKey,
		options:     options,
	}, nil
}

// mergeFile merges a config file into dst. YAML is used for .yml/.yaml
// paths; everything else is parsed as line-oriented KEY=VALUE.
func mergeFile(dst map[string]string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		kv := map[string]string{}
		if err := yaml.Unmarshal(data, &kv); err != nil {
			return fmt.Errorf("parsing config file %q: %w", path, err)
		}
		for k, v := range kv {
			dst[k] = v
		}
	default:
		mergeKeyValueLines(dst, string(data))
	}
	return nil
}

// mergeKeyValueLines parses KEY=VALUE lines into dst. Blank lines, comment
// lines starting with #, and lines without = are skipped.
func mergeKeyValueLines(dst map[string]string, text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		dst[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

// Get returns the option value, or def when the option is unset.
func (c *Config) Get(key, def string) string {
	if v, ok := c.options[key]; ok {
		return v
	}
	return def
}

// GetInt returns the option coerced to int, or def when unset or malformed.
func (c *Config) GetInt(key string, def int) int {
	v, ok := c.options[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetFloat returns the option coerced to float64, or def when unset or malformed.
func (c *Config) GetFloat(key string, def float64) float64 {
	v, ok := c.options[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// GetBool returns true when the option equals "true" (case-insensitive),
// or def when the option is unset.
func (c *Config) GetBool(key string, def bool) bool {
	v, ok := c.options[key]
	if !ok {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Set assigns an option value.
func (c *Config) Set(key, value string) {
	c.options[key] = value
}

// PodNamePrefix returns the discovery prefix for a pod type.
func (c *Config) PodNamePrefix(podType string) string {
	return naming.PodNamePrefix(c.ProjectName, podType)
}

// PodName returns the full pod name for a pod type and creation timestamp.
func (c *Config) PodName(podType string, timestamp int64) string {
	return naming.PodName(c.ProjectName, podType, timestamp)
}
