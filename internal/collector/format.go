package collector

import (
	"fmt"
	"strings"
)

// OutputFormat selects the delimiter placed between collected paths.
type OutputFormat string

const (
	// FormatNewline separates paths with a line feed.
	FormatNewline OutputFormat = "newline"
	// FormatSemicolon separates paths with a semicolon.
	FormatSemicolon OutputFormat = "semicolon"

	newlineDelimiter   = "\n"
	semicolonDelimiter = ";"

	invalidOutputFormatMessage = "invalid output format %q; accepted values: %s, %s"
)

// DefaultOutputFormat is used when no format has been configured.
const DefaultOutputFormat = FormatNewline

// ParseOutputFormat validates a user supplied format name.
// An empty value selects DefaultOutputFormat.
func ParseOutputFormat(input string) (OutputFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch OutputFormat(normalized) {
	case "":
		return DefaultOutputFormat, nil
	case FormatNewline, FormatSemicolon:
		return OutputFormat(normalized), nil
	default:
		return "", fmt.Errorf(invalidOutputFormatMessage, input, FormatNewline, FormatSemicolon)
	}
}

// Delimiter returns the separator for the format. Anything other than
// FormatSemicolon separates with a newline.
func (format OutputFormat) Delimiter() string {
	if format == FormatSemicolon {
		return semicolonDelimiter
	}
	return newlineDelimiter
}

// String returns the format name.
func (format OutputFormat) String() string {
	return string(format)
}
