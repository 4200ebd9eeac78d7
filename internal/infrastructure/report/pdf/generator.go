package pdf

import (
	"bytes"
	"errors"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ekovalenko/skincheck/internal/core/domain"
)

const disclaimerText = "Disclaimer: This report is generated by AI and is not a medical diagnosis. " +
	"Please consult a healthcare professional for medical advice."

// Generator renders one assessment into a single-page A4 report:
// title, date, risk label, explanation, the analyzed image and the
// fixed medical disclaimer.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Render(asset *domain.ImageAsset, result domain.AssessmentResult, generatedAt time.Time) ([]byte, error) {
	if asset == nil || len(asset.Data) == 0 {
		return nil, domain.WrapError(domain.ErrRender, "render report", errors.New("empty image asset"))
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, "AI Skin Monitoring Report", "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "", 12)
	doc.CellFormat(0, 10, "Date: "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 10, tr("Risk Level: "+result.Risk.DisplayLabel()), "", 1, "L", false, 0, "")

	doc.SetFont("Arial", "", 12)
	doc.MultiCell(0, 8, tr(result.Explanation), "", "L", false)
	doc.Ln(4)

	options := fpdf.ImageOptions{ImageType: imageType(asset.MimeType)}
	doc.RegisterImageOptionsReader("lesion", options, bytes.NewReader(asset.Data))
	doc.ImageOptions("lesion", 10, 0, 100, 0, true, options, 0, "")
	doc.Ln(6)

	doc.SetFont("Arial", "I", 10)
	doc.MultiCell(0, 6, disclaimerText, "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, domain.WrapError(domain.ErrRender, "render report", err)
	}
	return buf.Bytes(), nil
}

func imageType(mimeType string) string {
	if mimeType == "image/png" {
		return "PNG"
	}
	return "JPEG"
}
