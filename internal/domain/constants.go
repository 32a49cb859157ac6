package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// DataFilePermissions is the permission for settings and history (rw-r--r--)
	DataFilePermissions = 0o644
)

// Option defaults
const (
	// DefaultMaxTokens is the reply budget when none is given
	DefaultMaxTokens = 256
	// DefaultTemperature is the sampling temperature when none is given
	DefaultTemperature = 0.2
	// DefaultModelName is the model used when neither flags, settings nor config name one
	DefaultModelName = "gpt-3.5-turbo"
)

// Token budget constants
const (
	// ReplyMargin is reserved out of every context window for the reply
	ReplyMargin = 96
)

// History constants
const (
	// MaxHistoryStore caps the number of exchanges kept on disk
	MaxHistoryStore = 64
	// DefaultHistoryViewCount is how many exchanges .history-view prints
	DefaultHistoryViewCount = MaxHistoryStore
	// DefaultUndoCount is how many exchanges .history-undo drops
	DefaultUndoCount = 1
)

// Dialogue tags used when prior exchanges are prepended to a prompt.
const (
	TagUser      = "_user_:"
	TagAssistant = "_assistant_:"
)

// Placeholder replies
const (
	// MockReply is recorded when a prompt is assembled but not sent
	MockReply = "WARNING: Did not send!"
	// EmptyReplyWarning replaces a reply that is blank after cleanup
	EmptyReplyWarning = "WARNING: Something went wrong! Try Again."
	// NoResponseReply replaces an absent text field in a vendor response
	NoResponseReply = "No response"
)

// Environment and file names
const (
	// DefaultAPIKeyEnv holds the vendor credential
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	// DefaultOrgEnv optionally holds the vendor organisation id
	DefaultOrgEnv = "OPENAI_ORG_ID"
	// APIKeysURL is where users create a credential
	APIKeysURL = "https://platform.openai.com/account/api-keys"
	// ModelsDocURL documents the available models
	ModelsDocURL = "https://platform.openai.com/docs/models/"
	// DefaultBaseURL is the vendor API root
	DefaultBaseURL = "https://api.openai.com/v1"

	SettingsFileName   = "settings.json"
	HistoryFileName    = "history.json"
	HistoryDBFileName  = "history.db"
	ConfigFileName     = "config.yaml"
	EnvFileName        = "sllm.env"
	ConfigDirName      = "sllm"
	ConfigPathEnv      = "SLLM_CONFIG"
	DebugEnv           = "SLLM_DEBUG"
	HistoryBackendJSON = "json"
	HistoryBackendSQL  = "sqlite"
)

// Timeout and duration constants
const (
	// SpinnerInterval is the frame delay of the "thinking" spinner
	SpinnerInterval = 80 * time.Millisecond
)
