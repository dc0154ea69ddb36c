package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"verifai/internal/analysis"
)

// writeCertificate lays out the audit certificate: summary, liveness, stock
// and reasoning sections, mirroring what the credit desk expects on file.
func writeCertificate(w io.Writer, caseID string, verdict *analysis.Verdict) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, "VerifAI - Pre-Shipment Inspection Certificate", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	section(pdf, "1. Inspection Summary")
	status := verdict.VerificationStatus
	if status == analysis.StatusApproved {
		pdf.SetTextColor(0, 128, 0)
	} else {
		pdf.SetTextColor(255, 0, 0)
	}
	line(pdf, fmt.Sprintf("VERDICT: %s", status))
	pdf.SetTextColor(0, 0, 0)
	line(pdf, fmt.Sprintf("Case ID: %s", caseID))
	pdf.Ln(5)

	section(pdf, "2. Liveness & Security")
	if verdict.Liveness != nil {
		line(pdf, fmt.Sprintf("Code Spoken Correctly: %t", verdict.Liveness.CodeSpokenCorrectly))
		line(pdf, fmt.Sprintf("Voice Confidence: %s", verdict.Liveness.VoiceLivenessConfidence))
		pdf.MultiCell(0, 10, fmt.Sprintf("Transcript: %q", verdict.Liveness.DetectedCodeTranscript), "", "L", false)
	} else {
		line(pdf, "No liveness data available.")
	}
	pdf.Ln(5)

	section(pdf, "3. Stock & Collateral")
	if verdict.Stock != nil {
		line(pdf, fmt.Sprintf("Warehouse Environment: %s", yesNo(verdict.Stock.IsWarehouseEnvironment)))
		line(pdf, fmt.Sprintf("Commercial Volume: %s", yesNo(verdict.Stock.CommercialVolumeDetected)))
		description := verdict.Stock.InventoryDescription
		if description == "" {
			description = "No description provided."
		}
		pdf.MultiCell(0, 10, "Description: "+description, "", "L", false)
	} else {
		line(pdf, "No stock assessment available.")
	}
	pdf.Ln(5)

	section(pdf, "4. Auditor Reasoning")
	pdf.SetFont("Arial", "I", 11)
	reasoning := verdict.AuditorReasoning
	if reasoning == "" {
		reasoning = "No reasoning provided."
	}
	pdf.MultiCell(0, 10, reasoning, "", "L", false)

	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
}

func line(pdf *fpdf.Fpdf, text string) {
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}
