// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

const (
	clipboardWriteFailedFormat = "clipboard write failed: %w"
	printWriteFailedFormat     = "print paths failed: %w"
)

// Copier copies textual data to its destination.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf(clipboardWriteFailedFormat, err)
	}
	return nil
}

// WriterService implements Copier by printing to a writer, for terminals
// without a clipboard.
type WriterService struct {
	writer io.Writer
}

// NewWriterService constructs a Copier that prints text followed by a newline.
func NewWriterService(writer io.Writer) *WriterService {
	return &WriterService{writer: writer}
}

// Copy prints text to the underlying writer.
func (service *WriterService) Copy(text string) error {
	if _, err := fmt.Fprintln(service.writer, text); err != nil {
		return fmt.Errorf(printWriteFailedFormat, err)
	}
	return nil
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = (*WriterService)(nil)
)
