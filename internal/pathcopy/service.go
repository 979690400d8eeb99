// Package pathcopy copies the linked file paths of the active document to the clipboard.
package pathcopy

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/graphpaths/internal/collector"
	"github.com/temirov/graphpaths/internal/services/clipboard"
	"github.com/temirov/graphpaths/internal/services/notify"
	"github.com/temirov/graphpaths/internal/types"
	"github.com/temirov/graphpaths/internal/workspace"
)

const (
	errorActiveDocumentFormat = "determine active document: %w"
	errorOutboundLinksFormat  = "list links of %s: %w"
	errorCopyFormat           = "copy paths of %s: %w"
)

// LinkIndex lists the outbound links of a document and resolves them.
type LinkIndex interface {
	collector.Resolver
	OutboundLinks(documentPath string) ([]collector.OutboundLink, error)
}

// Result describes a successful copy.
type Result struct {
	Document string
	Paths    []string
	Text     string
}

// Report is the per-link trace of the active document.
type Report struct {
	Document string                  `json:"document"`
	Outcomes []collector.LinkOutcome `json:"links"`
}

// Service runs the copy action against its collaborators.
type Service struct {
	provider workspace.Provider
	index    LinkIndex
	copier   clipboard.Copier
	notifier notify.Notifier
}

// NewService wires a Service.
func NewService(provider workspace.Provider, index LinkIndex, copier clipboard.Copier, notifier notify.Notifier) *Service {
	return &Service{
		provider: provider,
		index:    index,
		copier:   copier,
		notifier: notifier,
	}
}

var reportedNotices = map[error]string{
	workspace.ErrNoActiveDocument: types.NoticeNoActiveFile,
	collector.ErrMissingBasePath:  types.NoticeMissingBasePath,
	collector.ErrNoLinkedFiles:    types.NoticeNoLinkedFiles,
}

// IsReported reports whether err is one of the outcomes already shown to the user as a notice.
func IsReported(err error) bool {
	for reportedError := range reportedNotices {
		if errors.Is(err, reportedError) {
			return true
		}
	}
	return false
}

// Run collects the linked paths of the active document, copies them once and
// notifies the user. Every expected failure is notified and returned; the
// clipboard failure is returned without a notice.
func (service *Service) Run(ctx context.Context, settings collector.Settings) (Result, error) {
	document, links, prepareError := service.prepare(settings)
	if prepareError != nil {
		return Result{}, service.report(prepareError)
	}
	collectedPaths, collectError := collector.Collect(links, document, service.index, settings)
	if collectError != nil {
		return Result{}, service.report(collectError)
	}
	text := collector.Join(collectedPaths, settings.OutputFormat)
	if contextError := ctx.Err(); contextError != nil {
		return Result{}, contextError
	}
	if copyError := service.copier.Copy(text); copyError != nil {
		return Result{}, fmt.Errorf(errorCopyFormat, document, copyError)
	}
	service.notifier.Notify(types.NoticeCopied)
	return Result{Document: document, Paths: collectedPaths, Text: text}, nil
}

// Inspect traces every outbound link of the active document without copying
// anything. Failed preconditions are notified the same way Run notifies them.
func (service *Service) Inspect(settings collector.Settings) (Report, error) {
	document, links, prepareError := service.prepare(settings)
	if prepareError != nil {
		return Report{}, service.report(prepareError)
	}
	outcomes, inspectError := collector.Inspect(links, document, service.index, settings)
	if inspectError != nil {
		return Report{}, service.report(inspectError)
	}
	return Report{Document: document, Outcomes: outcomes}, nil
}

// prepare checks the preconditions in the order the user sees them: a
// document must be active before the base path is looked at.
func (service *Service) prepare(settings collector.Settings) (string, []collector.OutboundLink, error) {
	document, documentError := service.provider.ActiveDocument()
	if documentError != nil {
		if errors.Is(documentError, workspace.ErrNoActiveDocument) {
			return "", nil, documentError
		}
		return "", nil, fmt.Errorf(errorActiveDocumentFormat, documentError)
	}
	if settings.BasePath == "" {
		return "", nil, collector.ErrMissingBasePath
	}
	links, linksError := service.index.OutboundLinks(document)
	if linksError != nil {
		return "", nil, fmt.Errorf(errorOutboundLinksFormat, document, linksError)
	}
	return document, links, nil
}

func (service *Service) report(err error) error {
	for reportedError, notice := range reportedNotices {
		if errors.Is(err, reportedError) {
			service.notifier.Notify(notice)
			break
		}
	}
	return err
}
