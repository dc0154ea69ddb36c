// Package report renders the pre-shipment inspection certificate. Rendering
// is best-effort by contract: a failure here never reverses a completed
// verification, it only leaves the session without an artifact reference.
package report

import (
	"bytes"
	"context"
	"fmt"

	"verifai/internal/analysis"
	"verifai/internal/objectstore"
)

// Gateway turns a verdict into a durable artifact reference.
type Gateway interface {
	Render(ctx context.Context, caseID string, verdict *analysis.Verdict) (string, error)
}

// PDF renders the certificate and uploads it to the reports bucket.
type PDF struct {
	store objectstore.Store
}

// NewPDF builds the production report gateway.
func NewPDF(store objectstore.Store) *PDF {
	return &PDF{store: store}
}

// Render produces the certificate PDF and returns its public URL.
func (p *PDF) Render(ctx context.Context, caseID string, verdict *analysis.Verdict) (string, error) {
	var buf bytes.Buffer
	if err := writeCertificate(&buf, caseID, verdict); err != nil {
		return "", fmt.Errorf("render certificate: %w", err)
	}
	url, err := p.store.Put(ctx, objectstore.ReportKey(caseID), "application/pdf", &buf)
	if err != nil {
		return "", fmt.Errorf("upload certificate: %w", err)
	}
	return url, nil
}
