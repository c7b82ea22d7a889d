package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the settings file looked up in the home and working
// directories.
const ConfigFileName = ".srcpack.yaml"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults that flags can override.
type ApplicationConfiguration struct {
	Pack PackConfiguration `mapstructure:"pack"`
}

// PackConfiguration defines defaults for the pack command.
type PackConfiguration struct {
	Preset         string             `mapstructure:"preset"`
	Compression    string             `mapstructure:"compression"`
	RemoveComments *bool              `mapstructure:"remove_comments"`
	Jobs           *int               `mapstructure:"jobs"`
	LocalRules     string             `mapstructure:"local_rules"`
	UseLocalRules  *bool              `mapstructure:"use_local_rules"`
	Tokens         TokenConfiguration `mapstructure:"tokens"`
	Clipboard      *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads settings from the home directory file
// overlaid by the working directory file (or an explicit path).
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(filepath.Join(homeDirectory, ConfigFileName))
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, ConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Pack = result.Pack.merge(override.Pack)
	return result
}

func (configuration PackConfiguration) merge(override PackConfiguration) PackConfiguration {
	result := configuration
	if override.Preset != "" {
		result.Preset = override.Preset
	}
	if override.Compression != "" {
		result.Compression = override.Compression
	}
	if override.RemoveComments != nil {
		result.RemoveComments = cloneBool(override.RemoveComments)
	}
	if override.Jobs != nil {
		result.Jobs = cloneInt(override.Jobs)
	}
	if override.LocalRules != "" {
		result.LocalRules = override.LocalRules
	}
	if override.UseLocalRules != nil {
		result.UseLocalRules = cloneBool(override.UseLocalRules)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
