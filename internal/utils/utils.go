// Package utils contains general helper functions used across the graphpaths tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration file constants used across the project.
const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = "graphpaths.yaml"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory created under the XDG configuration home.
	GlobalConfigDirectoryName = "graphpaths"
	// EnvironmentPrefix prefixes environment variables that override configuration.
	EnvironmentPrefix = "GRAPHPATHS"
)

const (
	pathSegmentSeparator = "/"
	hiddenNamePrefix     = "."
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsHiddenName reports whether a file or directory name is hidden by convention.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, hiddenNamePrefix) && name != "." && name != ".."
}

// ToSlashPath converts a platform path into the forward-slash form used for vault paths.
func ToSlashPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", pathSegmentSeparator)
}
