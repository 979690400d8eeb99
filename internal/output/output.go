// Package output renders link inspections for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/temirov/graphpaths/internal/collector"
	"github.com/temirov/graphpaths/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	unresolvedNodeFormat = "[%s] %s"
	resolvedNodeFormat   = "[%s] %s -> %s"
	summaryLineFormat    = "Summary: %d %s, %d resolved, %d unresolved, %d excluded, %d duplicate"
	linkSingular         = "link"
	linkPlural           = "links"

	unsupportedFormatMessage = "unsupported output format %q"
)

// Inspection is the rendered view of one document and its outbound links.
type Inspection struct {
	Document string                  `json:"document"`
	Links    []collector.LinkOutcome `json:"links"`
	Summary  Summary                 `json:"summary"`
}

// Summary counts link outcomes by status.
type Summary struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Excluded   int `json:"excluded"`
	Duplicate  int `json:"duplicate"`
}

// NewInspection builds an Inspection and its summary.
func NewInspection(document string, outcomes []collector.LinkOutcome) Inspection {
	summary := Summary{Total: len(outcomes)}
	for _, outcome := range outcomes {
		switch outcome.Status {
		case collector.StatusResolved:
			summary.Resolved++
		case collector.StatusUnresolved:
			summary.Unresolved++
		case collector.StatusExcluded:
			summary.Excluded++
		case collector.StatusDuplicate:
			summary.Duplicate++
		}
	}
	if outcomes == nil {
		outcomes = []collector.LinkOutcome{}
	}
	return Inspection{Document: document, Links: outcomes, Summary: summary}
}

// RenderInspectionRaw draws the document as a tree root with one child per link.
func RenderInspectionRaw(inspection Inspection) string {
	tree := gotree.New(inspection.Document)
	for _, outcome := range inspection.Links {
		tree.Add(nodeLabel(outcome))
	}
	var builder strings.Builder
	builder.WriteString(strings.TrimRight(tree.Print(), "\n"))
	builder.WriteString("\n")
	builder.WriteString(FormatSummaryLine(inspection.Summary))
	return builder.String()
}

// RenderInspectionJSON marshals the inspection as indented JSON.
func RenderInspectionJSON(inspection Inspection) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(inspection, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// FormatSummaryLine renders the per-status counts on one line.
func FormatSummaryLine(summary Summary) string {
	noun := linkPlural
	if summary.Total == 1 {
		noun = linkSingular
	}
	return fmt.Sprintf(summaryLineFormat, summary.Total, noun, summary.Resolved, summary.Unresolved, summary.Excluded, summary.Duplicate)
}

// WriteInspection renders inspection in format and writes it followed by a newline.
func WriteInspection(writer io.Writer, format string, inspection Inspection) error {
	var rendered string
	switch format {
	case types.RenderRaw, "":
		rendered = RenderInspectionRaw(inspection)
	case types.RenderJSON:
		encoded, renderError := RenderInspectionJSON(inspection)
		if renderError != nil {
			return renderError
		}
		rendered = encoded
	default:
		return fmt.Errorf(unsupportedFormatMessage, format)
	}
	_, writeError := fmt.Fprintln(writer, rendered)
	return writeError
}

func nodeLabel(outcome collector.LinkOutcome) string {
	if outcome.FullPath == "" {
		return fmt.Sprintf(unresolvedNodeFormat, outcome.Status, outcome.Link)
	}
	return fmt.Sprintf(resolvedNodeFormat, outcome.Status, outcome.Link, outcome.FullPath)
}
