package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verifai/internal/analysis"
	"verifai/internal/objectstore"
)

func approvedVerdict() *analysis.Verdict {
	return &analysis.Verdict{
		VerificationStatus: analysis.StatusApproved,
		Liveness: &analysis.LivenessCheck{
			CodeSpokenCorrectly:     true,
			DetectedCodeTranscript:  "9435",
			VoiceLivenessConfidence: "HIGH",
		},
		Stock: &analysis.StockAssessment{
			IsWarehouseEnvironment:   true,
			InventoryVisible:         true,
			InventoryDescription:     "Shrink-wrapped pallets of textiles",
			CommercialVolumeDetected: true,
		},
		AuditorReasoning: "Code spoken correctly; commercial volume visible.",
	}
}

func TestRenderUploadsCertificate(t *testing.T) {
	store := objectstore.NewInMemory()
	gw := NewPDF(store)

	url, err := gw.Render(context.Background(), "CASE-7", approvedVerdict())
	require.NoError(t, err)
	assert.Equal(t, "memory://reports/report_CASE-7.pdf", url)

	data, ok := store.Get("reports/report_CASE-7.pdf")
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestWriteCertificateHandlesDegradedVerdict(t *testing.T) {
	var buf bytes.Buffer
	err := writeCertificate(&buf, "CASE-8", analysis.DegradedVerdict("garbled output"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestRenderSurfacesUploadFailure(t *testing.T) {
	gw := NewPDF(failingStore{})

	_, err := gw.Render(context.Background(), "CASE-9", approvedVerdict())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload certificate")
}
