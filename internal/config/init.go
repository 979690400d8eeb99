package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigurationTemplate = `# Directory of the vault. Defaults to the working directory.
vault: ""
# Prepended to every linked file path. Required.
base_path: ""
# newline or semicolon
output_format: newline
# Comma separated folder names; any path containing one of them is skipped.
excluded_folders: ""
`

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target Target
	Force  bool
	Store  Store
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = TargetLocal
	}
	destinationPath, pathErr := options.Store.Path(target)
	if pathErr != nil {
		return "", pathErr
	}
	if destinationPath == "" {
		return "", fmt.Errorf("no configuration file for target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	configurationDirectory := filepath.Dir(destinationPath)
	if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
	}
	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
