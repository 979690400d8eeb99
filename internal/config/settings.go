// Package config loads and persists graphpaths settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/temirov/graphpaths/internal/collector"
	"github.com/temirov/graphpaths/internal/utils"
)

// Setting keys as they appear in configuration files.
const (
	KeyVault           = "vault"
	KeyBasePath        = "base_path"
	KeyOutputFormat    = "output_format"
	KeyExcludedFolders = "excluded_folders"

	unknownKeyMessage = "unknown setting %q; supported settings: %s"
)

// Target identifies which configuration file an operation writes to.
type Target string

const (
	// TargetLocal is the configuration file in the working directory.
	TargetLocal Target = "local"
	// TargetGlobal is the configuration file in the XDG configuration home.
	TargetGlobal Target = "global"
)

var settingKeys = []string{KeyVault, KeyBasePath, KeyOutputFormat, KeyExcludedFolders}

// Settings is the persisted configuration record.
type Settings struct {
	Vault           string `mapstructure:"vault" yaml:"vault,omitempty"`
	BasePath        string `mapstructure:"base_path" yaml:"base_path"`
	OutputFormat    string `mapstructure:"output_format" yaml:"output_format"`
	ExcludedFolders string `mapstructure:"excluded_folders" yaml:"excluded_folders"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{OutputFormat: collector.DefaultOutputFormat.String()}
}

// CollectorSettings converts the record into the collector's configuration.
func (settings Settings) CollectorSettings() (collector.Settings, error) {
	outputFormat, formatError := collector.ParseOutputFormat(settings.OutputFormat)
	if formatError != nil {
		return collector.Settings{}, formatError
	}
	return collector.Settings{
		BasePath:        settings.BasePath,
		OutputFormat:    outputFormat,
		ExcludedFolders: settings.ExcludedFolders,
	}, nil
}

// Merge overlays the non-empty values of override onto the receiver.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.Vault != "" {
		result.Vault = override.Vault
	}
	if override.BasePath != "" {
		result.BasePath = override.BasePath
	}
	if override.OutputFormat != "" {
		result.OutputFormat = override.OutputFormat
	}
	if override.ExcludedFolders != "" {
		result.ExcludedFolders = override.ExcludedFolders
	}
	return result
}

// Value returns the setting stored under key.
func (settings Settings) Value(key string) (string, error) {
	switch normalizeKey(key) {
	case KeyVault:
		return settings.Vault, nil
	case KeyBasePath:
		return settings.BasePath, nil
	case KeyOutputFormat:
		return settings.OutputFormat, nil
	case KeyExcludedFolders:
		return settings.ExcludedFolders, nil
	default:
		return "", fmt.Errorf(unknownKeyMessage, key, strings.Join(settingKeys, ", "))
	}
}

// With returns a copy of the settings with key changed to value.
func (settings Settings) With(key string, value string) (Settings, error) {
	result := settings
	switch normalizeKey(key) {
	case KeyVault:
		result.Vault = value
	case KeyBasePath:
		result.BasePath = value
	case KeyOutputFormat:
		outputFormat, formatError := collector.ParseOutputFormat(value)
		if formatError != nil {
			return Settings{}, formatError
		}
		result.OutputFormat = outputFormat.String()
	case KeyExcludedFolders:
		result.ExcludedFolders = value
	default:
		return Settings{}, fmt.Errorf(unknownKeyMessage, key, strings.Join(settingKeys, ", "))
	}
	return result, nil
}

// Keys lists the supported setting keys.
func Keys() []string {
	return append([]string(nil), settingKeys...)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Store reads and writes the global and local configuration files.
type Store struct {
	GlobalPath string
	LocalPath  string
}

// GlobalConfigPath returns the configuration file under the XDG configuration home.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// NewStore resolves the configuration file locations.
func NewStore(options LoadOptions) (Store, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Store{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}
	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return Store{}, resolveErr
	}
	return Store{GlobalPath: GlobalConfigPath(), LocalPath: localPath}, nil
}

// Path returns the file backing target.
func (store Store) Path(target Target) (string, error) {
	switch target {
	case TargetLocal, "":
		return store.LocalPath, nil
	case TargetGlobal:
		return store.GlobalPath, nil
	default:
		return "", fmt.Errorf("unsupported configuration target %q", target)
	}
}

// Load merges defaults, the global file, the local file and GRAPHPATHS_*
// environment variables, later sources winning for non-empty values.
func (store Store) Load() (Settings, error) {
	merged := DefaultSettings()
	for _, path := range []string{store.GlobalPath, store.LocalPath} {
		fileSettings, loadErr := loadSettingsFromPath(path)
		if loadErr != nil {
			return Settings{}, loadErr
		}
		merged = merged.Merge(fileSettings)
	}
	merged = merged.Merge(loadSettingsFromEnvironment())
	outputFormat, formatError := collector.ParseOutputFormat(merged.OutputFormat)
	if formatError != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyOutputFormat, formatError)
	}
	merged.OutputFormat = outputFormat.String()
	return merged, nil
}

// Save writes settings to the target file, creating parent directories.
func (store Store) Save(target Target, settings Settings) error {
	path, pathErr := store.Path(target)
	if pathErr != nil {
		return pathErr
	}
	if path == "" {
		return fmt.Errorf("no configuration file for target %q", target)
	}
	encoded, marshalErr := yaml.Marshal(settings)
	if marshalErr != nil {
		return fmt.Errorf("encode configuration for %s: %w", path, marshalErr)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create configuration directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return fmt.Errorf("write configuration to %s: %w", path, err)
	}
	return nil
}

// Set changes one setting in the target file and saves it immediately.
// Only the target file is read, so values inherited from other sources are not copied into it.
func (store Store) Set(target Target, key string, value string) (Settings, error) {
	path, pathErr := store.Path(target)
	if pathErr != nil {
		return Settings{}, pathErr
	}
	current, loadErr := loadSettingsFromPath(path)
	if loadErr != nil {
		return Settings{}, loadErr
	}
	updated, updateErr := current.With(key, value)
	if updateErr != nil {
		return Settings{}, updateErr
	}
	if saveErr := store.Save(target, updated); saveErr != nil {
		return Settings{}, saveErr
	}
	return updated, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadSettingsFromPath(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return Settings{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return Settings{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var settings Settings
	if decodeErr := reader.Unmarshal(&settings); decodeErr != nil {
		return Settings{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return settings, nil
}

func loadSettingsFromEnvironment() Settings {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	for _, key := range settingKeys {
		_ = reader.BindEnv(key)
	}
	return Settings{
		Vault:           reader.GetString(KeyVault),
		BasePath:        reader.GetString(KeyBasePath),
		OutputFormat:    reader.GetString(KeyOutputFormat),
		ExcludedFolders: reader.GetString(KeyExcludedFolders),
	}
}
