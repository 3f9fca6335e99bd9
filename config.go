package cms

import (
	"github.com/goliatone/go-cms-delivery/internal/runtimeconfig"
)

// Backend providers accepted by BackendConfig.Provider.
const (
	BackendMemory   = runtimeconfig.BackendMemory
	BackendMarkdown = runtimeconfig.BackendMarkdown
	BackendCustom   = runtimeconfig.BackendCustom
)

var (
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrCredentialsRequired        = runtimeconfig.ErrCredentialsRequired
	ErrMarkdownExtensionUnknown   = runtimeconfig.ErrMarkdownExtensionUnknown
)

type (
	Config               = runtimeconfig.Config
	BackendConfig        = runtimeconfig.BackendConfig
	FetchConfig          = runtimeconfig.FetchConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
