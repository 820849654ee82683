package domain

import "fmt"

// Accepted document MIME types.
const (
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
	MIMETypePDF  = "application/pdf"
)

// MaxUploadSize is the largest document accepted for inline analysis.
const MaxUploadSize = 20 << 20

// AllowedMIMETypes lists the document types the extractor accepts.
var AllowedMIMETypes = []string{MIMETypePNG, MIMETypeJPEG, MIMETypePDF}

// IsAllowedMIMEType reports whether mime is an accepted document type.
func IsAllowedMIMEType(mime string) bool {
	for _, m := range AllowedMIMETypes {
		if m == mime {
			return true
		}
	}
	return false
}

// Upload is one document submitted for analysis.
type Upload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// ExtractionError reports a failed extraction for one document.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %q: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
