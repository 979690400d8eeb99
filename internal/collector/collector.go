// Package collector turns the outbound links of one document into a delimited
// list of absolute file paths.
package collector

import (
	"errors"
	"strings"

	"github.com/temirov/graphpaths/internal/utils"
)

const (
	exclusionSeparator = ","
	pathSeparator      = "/"
)

var (
	// ErrMissingBasePath reports that no base path was configured.
	ErrMissingBasePath = errors.New("base path is not set")
	// ErrNoLinkedFiles reports that no outbound link survived resolution and filtering.
	ErrNoLinkedFiles = errors.New("no linked files found")
)

// OutboundLink is a link target as written in the source document.
type OutboundLink string

// Resolver maps a link written in sourcePath to a vault-relative target path.
// It returns false when the link does not point at an existing file.
type Resolver interface {
	ResolveLink(link OutboundLink, sourcePath string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(link OutboundLink, sourcePath string) (string, bool)

// ResolveLink calls function(link, sourcePath).
func (function ResolverFunc) ResolveLink(link OutboundLink, sourcePath string) (string, bool) {
	return function(link, sourcePath)
}

// Settings carries the configuration consumed by a single collection.
type Settings struct {
	BasePath        string
	OutputFormat    OutputFormat
	ExcludedFolders string
}

// ParseExclusions splits a comma separated folder list, trimming whitespace and
// dropping empty entries.
func ParseExclusions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var exclusions []string
	for _, entry := range strings.Split(raw, exclusionSeparator) {
		trimmedEntry := strings.TrimSpace(entry)
		if trimmedEntry == "" {
			continue
		}
		exclusions = append(exclusions, trimmedEntry)
	}
	return utils.DeduplicatePatterns(exclusions)
}

// isExcluded reports whether fullPath contains any exclusion as a substring.
// A folder name that is part of an unrelated path component also matches.
func isExcluded(fullPath string, exclusions []string) bool {
	for _, exclusion := range exclusions {
		if strings.Contains(fullPath, exclusion) {
			return true
		}
	}
	return false
}

// Collect resolves links in document order and returns the distinct,
// non-excluded full paths in order of first occurrence.
func Collect(links []OutboundLink, sourcePath string, resolver Resolver, settings Settings) ([]string, error) {
	outcomes, inspectError := Inspect(links, sourcePath, resolver, settings)
	if inspectError != nil {
		return nil, inspectError
	}
	collectedPaths := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Status == StatusResolved {
			collectedPaths = append(collectedPaths, outcome.FullPath)
		}
	}
	if len(collectedPaths) == 0 {
		return nil, ErrNoLinkedFiles
	}
	return collectedPaths, nil
}

// CollectString runs Collect and joins the result using the configured format.
func CollectString(links []OutboundLink, sourcePath string, resolver Resolver, settings Settings) (string, error) {
	collectedPaths, collectError := Collect(links, sourcePath, resolver, settings)
	if collectError != nil {
		return "", collectError
	}
	return Join(collectedPaths, settings.OutputFormat), nil
}

// Join concatenates paths with the delimiter of format, without a trailing delimiter.
func Join(paths []string, format OutputFormat) string {
	return strings.Join(paths, format.Delimiter())
}

func fullPathFor(basePath string, target string) string {
	return basePath + pathSeparator + target
}
