// Package mime sniffs document content types.
package mime

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.MIMEDetector = (*Detector)(nil)

// Detector identifies content from magic bytes.
type Detector struct{}

// NewDetector returns a content sniffer.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the media type of data without parameters such as
// "; charset=utf-8". Unknown content is "application/octet-stream".
func (d *Detector) Detect(data []byte) string {
	base, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(base)
}
