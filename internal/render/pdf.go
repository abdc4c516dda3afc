// Package render draws veterinary animal records as printable PDF documents.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Veraticus/soapbox/internal/model"
)

// Clinic is the practice printed in the document header.
type Clinic struct {
	Name    string
	Address string
	City    string
	Phone   string
}

// DefaultClinic returns the header used when none is configured.
func DefaultClinic() Clinic {
	return Clinic{
		Name:    "WEST HIGHLAND DOG & CAT HOSPITAL",
		Address: "1795 West Highland",
		City:    "San Bernardino, CA 92407",
		Phone:   "(909) 887-5021",
	}
}

// Page geometry in inches on US Letter.
const (
	margin      = 0.5
	lineHeight  = 0.18
	fieldGap    = 0.5
	rightColumn = 4.5
)

var treatmentHeaders = []string{"Date", "Weight", "Treatment and Progress", "Charge"}
var treatmentWidths = []float64{0.8, 0.8, 4.6, 0.8}

// PDFRenderer implements service.Renderer with fpdf.
type PDFRenderer struct {
	clinic   Clinic
	compress bool
}

// Option customizes a PDFRenderer.
type Option func(*PDFRenderer)

// WithCompression toggles content stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(r *PDFRenderer) {
		r.compress = on
	}
}

// NewPDFRenderer creates a renderer for the given clinic. Empty clinic fields fall back to DefaultClinic.
func NewPDFRenderer(clinic Clinic, opts ...Option) *PDFRenderer {
	def := DefaultClinic()
	if clinic.Name == "" {
		clinic.Name = def.Name
	}
	if clinic.Address == "" {
		clinic.Address = def.Address
	}
	if clinic.City == "" {
		clinic.City = def.City
	}
	if clinic.Phone == "" {
		clinic.Phone = def.Phone
	}

	r := &PDFRenderer{clinic: clinic, compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderAnimalRecord draws the owner and animal fields, the reminders and the
// treatment table. Long treatment tables continue on further pages.
func (r *PDFRenderer) RenderAnimalRecord(record *model.AnimalRecordDraft) ([]byte, error) {
	if record == nil {
		record = &model.AnimalRecordDraft{}
	}
	owner, animal := record.OwnerInfo, record.AnimalInfo

	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCompression(r.compress)
	pdf.SetTitle("Animal Record", false)
	pdf.SetCreator("soap", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	width, _ := pdf.GetPageSize()

	// Title and clinic header.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin, 0.7, "Animal Record")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, 0.95, tr(owner[model.FieldOwnerName]))

	headerX := width - 3.5
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(headerX, 0.6, tr(r.clinic.Name))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(headerX, 0.75, tr(r.clinic.Address))
	pdf.Text(headerX, 0.9, tr(r.clinic.City))
	pdf.Text(headerX, 1.05, tr(r.clinic.Phone))

	field := func(x, y float64, label, value string, labelWidth, fieldWidth float64) {
		pdf.Text(x, y-0.07, tr(label+":"))
		pdf.Text(x+labelWidth, y-0.07, tr(value))
		pdf.Line(x+labelWidth, y, x+labelWidth+fieldWidth, y)
	}

	y := 1.5
	pdf.SetFont("Helvetica", "B", 12)
	field(margin, y, model.FieldOwnerName, owner[model.FieldOwnerName], 1.2, 2.5)
	pdf.SetFont("Helvetica", "", 10)
	field(rightColumn, y, model.FieldHomePhone, owner[model.FieldHomePhone], 1.0, 2.5)

	y += fieldGap
	pdf.Text(margin, y-0.07, "Address:")
	pdf.Text(margin+0.6, y-0.07, tr(owner[model.FieldAddress]))
	pdf.Line(margin+0.6, y, width-margin, y)

	y += fieldGap
	field(margin, y, model.FieldOtherPhone, owner[model.FieldOtherPhone], 1.2, 2.5)
	field(rightColumn, y, model.FieldDataEntryBy, owner[model.FieldDataEntryBy], 1.0, 2.5)

	y += fieldGap
	field(margin, y, model.FieldAnimalName, animal[model.FieldAnimalName], 1.2, 2.5)
	field(rightColumn, y, model.FieldSpecies, animal[model.FieldSpecies], 1.0, 2.5)
	y += fieldGap
	field(margin, y, model.FieldBreed, animal[model.FieldBreed], 1.2, 2.5)
	field(rightColumn, y, model.FieldColors, animal[model.FieldColors], 1.3, 2.2)
	y += fieldGap
	field(margin, y, model.FieldSex, animal[model.FieldSex], 1.2, 2.5)
	field(rightColumn, y, model.FieldAge, animal[model.FieldAge], 1.0, 2.5)
	y += fieldGap
	field(margin, y, model.FieldDateOfBirth, animal[model.FieldDateOfBirth], 1.2, 2.5)

	y += fieldGap
	pdf.Text(margin, y-0.07, "Reminders:")
	reminderX := margin + 0.8
	reminders := wrapCell(pdf, tr(strings.Join(model.CleanReminders(record.Reminders), "; ")), width-margin-reminderX)
	if len(reminders) == 0 {
		reminders = []string{""}
	}
	for i, line := range reminders {
		if i > 0 {
			y += lineHeight + 0.07
		}
		pdf.Text(reminderX, y-0.07, line)
		pdf.Line(reminderX, y, width-margin, y)
	}

	r.drawTreatmentTable(pdf, tr, y+0.3, model.ParseTreatmentData(record.TreatmentData))

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render animal record: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawTreatmentTable(pdf *fpdf.Fpdf, tr func(string) string, y float64, rows []model.TreatmentRow) {
	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - margin

	header := func(y float64) float64 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(211, 211, 211)
		pdf.SetXY(margin, y)
		for i, h := range treatmentHeaders {
			pdf.CellFormat(treatmentWidths[i], lineHeight+0.08, h, "1", 0, "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
		return y + lineHeight + 0.08
	}

	y = header(y)
	for _, row := range rows {
		cells := []string{row.Date, row.Weight, row.Treatment, row.Charge}
		wrapped := make([][]string, len(cells))
		lines := 1
		for i, cell := range cells {
			wrapped[i] = wrapCell(pdf, tr(cell), treatmentWidths[i]-0.08)
			lines = max(lines, len(wrapped[i]))
		}
		rowHeight := float64(lines)*lineHeight + 0.06

		if y+rowHeight > bottom {
			pdf.AddPage()
			y = header(margin)
		}

		x := margin
		for i, cellLines := range wrapped {
			pdf.Rect(x, y, treatmentWidths[i], rowHeight, "D")
			for j, line := range cellLines {
				pdf.Text(x+0.04, y+0.03+float64(j+1)*lineHeight-0.04, line)
			}
			x += treatmentWidths[i]
		}
		y += rowHeight
	}
}

func wrapCell(pdf *fpdf.Fpdf, text string, width float64) []string {
	if text == "" {
		return nil
	}
	return pdf.SplitText(text, width)
}
