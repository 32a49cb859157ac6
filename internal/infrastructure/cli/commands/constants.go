package commands

// Command names. Every command starts with "." so a prompt word never
// collides with a command.
const (
	CmdPrompt        = ".prompt"
	CmdSettings      = ".settings"
	CmdSettingsView  = ".settings-view"
	CmdSettingsDiff  = ".settings-diff"
	CmdSettingsPurge = ".settings-purge"
	CmdHistoryView   = ".history-view"
	CmdHistoryUndo   = ".history-undo"
	CmdHistoryPurge  = ".history-purge"
	CmdPurge         = ".purge"
	CmdCount         = ".count"
	CmdModels        = ".models"
	CmdRepeat        = ".repeat"
	CmdConfig        = ".config"
	CmdDoctor        = ".doctor"
	CmdVersion       = ".version"
)

// Error messages
const (
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrSettingsStoreUnavailable = "settings store unavailable"
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrPromptRequired           = "a prompt is required"
	ErrNameRequired             = "--name is required"
)

// User facing messages
const (
	MsgLimitPrompt              = "Please limit your prompt"
	MsgHistoryOff               = "Try running with history off!"
	MsgSettingsSaved            = "Created a new settings file"
	MsgSettingsHint             = "Settings can be changed with the `.settings` command."
	MsgSettingsPurged           = "Purged settings!"
	MsgHistoryPurged            = "Purged History"
	MsgHistoryUndone            = "History undone!"
	MsgNoHistoryToUndo          = "No history to undo!"
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgPurged                   = "Purged!"
	MsgNothingToCount           = "Nothing to count"
	MsgCountHint                = "Use the --prompt or --file options!"
	MsgNoDifferencesFromDefault = "No differences from default settings."
	MsgNoConfigDifferences      = "No differences from default configuration."
	MsgConfigurationValid       = "Configuration valid"
)
