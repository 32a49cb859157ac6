package domain

// Config mirrors ~/.config/sllm/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Provider            ProviderSettings  `yaml:"provider"`
	Storage             StorageSettings   `yaml:"storage"`
	Tokenizer           TokenizerSettings `yaml:"tokenizer"`
	Models              []ModelDescriptor `yaml:"models,omitempty"`
	Aliases             map[string]string `yaml:"aliases,omitempty"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
	Color          string `yaml:"color"`
}

// ProviderSettings locates the vendor API and its credential.
type ProviderSettings struct {
	BaseURL    string `yaml:"base_url"`
	AuthEnvVar string `yaml:"auth_env_var"`
	OrgEnvVar  string `yaml:"org_env_var"`
}

// StorageSettings controls where settings and history live.
type StorageSettings struct {
	Dir            string `yaml:"dir"`
	HistoryBackend string `yaml:"history_backend"`
	MaxHistory     int    `yaml:"max_history"`
}

// TokenizerSettings selects the BPE encoding used for estimates.
type TokenizerSettings struct {
	Encoding string `yaml:"encoding"`
}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// GetDefaultModel returns the configured default model name.
func (c *Config) GetDefaultModel() string {
	if c.Preferences.DefaultModel == "" {
		return DefaultModelName
	}
	return c.Preferences.DefaultModel
}

// GetMaxHistory returns the history cap.
func (c *Config) GetMaxHistory() int {
	if c.Storage.MaxHistory <= 0 {
		return MaxHistoryStore
	}
	return c.Storage.MaxHistory
}

// GetHistoryBackend returns the configured history backend.
func (c *Config) GetHistoryBackend() string {
	if c.Storage.HistoryBackend == "" {
		return HistoryBackendJSON
	}
	return c.Storage.HistoryBackend
}

// GetBaseURL returns the vendor API root.
func (c *Config) GetBaseURL() string {
	if c.Provider.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.Provider.BaseURL
}

// GetAuthEnvVar returns the environment variable holding the API key.
func (c *Config) GetAuthEnvVar() string {
	if c.Provider.AuthEnvVar == "" {
		return DefaultAPIKeyEnv
	}
	return c.Provider.AuthEnvVar
}

// GetOrgEnvVar returns the environment variable holding the organisation id.
func (c *Config) GetOrgEnvVar() string {
	if c.Provider.OrgEnvVar == "" {
		return DefaultOrgEnv
	}
	return c.Provider.OrgEnvVar
}

// GetTokenizerEncoding returns the BPE encoding name.
func (c *Config) GetTokenizerEncoding() string {
	if c.Tokenizer.Encoding == "" {
		return "cl100k_base"
	}
	return c.Tokenizer.Encoding
}

// GetColorMode returns auto, always or never.
func (c *Config) GetColorMode() string {
	switch c.Preferences.Color {
	case ColorAlways, ColorNever:
		return c.Preferences.Color
	default:
		return ColorAuto
	}
}
