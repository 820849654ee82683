package services

import (
	"fmt"
	"mime"
	"strings"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// ValidateUploads checks a batch before any extraction call is made.
// Declared types are normalised; undeclared ones are sniffed with detector.
// The batch is rejected as a whole when it is empty, holds a duplicate file
// name, an oversized document or an unsupported type.
func ValidateUploads(uploads []domain.Upload, detector driven.MIMEDetector) ([]domain.Upload, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrNoFiles
	}

	seen := make(map[string]bool, len(uploads))
	out := make([]domain.Upload, len(uploads))
	for i, u := range uploads {
		if strings.TrimSpace(u.FileName) == "" {
			return nil, fmt.Errorf("%w: file %d has no name", domain.ErrInvalidInput, i+1)
		}
		if seen[u.FileName] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateFileName, u.FileName)
		}
		seen[u.FileName] = true

		if len(u.Data) > domain.MaxUploadSize {
			return nil, fmt.Errorf("%w: %q is %d bytes, limit %d",
				domain.ErrFileTooLarge, u.FileName, len(u.Data), domain.MaxUploadSize)
		}

		mimeType := baseMediaType(u.MIMEType)
		if mimeType == "" && detector != nil {
			mimeType = baseMediaType(detector.Detect(u.Data))
		}
		if !domain.IsAllowedMIMEType(mimeType) {
			return nil, fmt.Errorf("%w: %q for file %q",
				domain.ErrUnsupportedMIMEType, mimeType, u.FileName)
		}

		u.MIMEType = mimeType
		out[i] = u
	}
	return out, nil
}

// baseMediaType drops parameters and lower-cases a media type.
// "application/octet-stream" counts as undeclared.
func baseMediaType(v string) string {
	if v == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(v, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "application/octet-stream" {
		return ""
	}
	return mediaType
}
