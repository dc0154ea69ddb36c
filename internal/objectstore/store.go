// Package objectstore persists binary artifacts (inspection videos, rendered
// certificates) and hands back publicly dereferenceable URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store writes an object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// VideoKey builds the object key for a submitted recording. The uuid keeps
// re-submissions for one case from clobbering each other.
func VideoKey(caseID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".mp4"
	}
	return fmt.Sprintf("videos/%s/%s%s", caseID, uuid.NewString(), ext)
}

// ReportKey builds the object key for a rendered certificate.
func ReportKey(caseID string) string {
	return fmt.Sprintf("reports/report_%s.pdf", caseID)
}
