package receipt

import (
	"bytes"
	"fmt"

	"vivah/backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a receipt as a single A4 page.
type PDFRenderer struct {
	schoolName string
}

func NewPDFRenderer(schoolName string) *PDFRenderer {
	if schoolName == "" {
		schoolName = "Vivah Tuition Centre"
	}
	return &PDFRenderer{schoolName: schoolName}
}

func rupees(paise int64) string {
	return fmt.Sprintf("Rs %d.%02d", paise/100, paise%100)
}

func (p *PDFRenderer) Render(r *models.Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, p.schoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Receipt No: %s", r.ReceiptNo), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "1", 1, "L", false, 0, "")
	}

	row("Student", r.StudentName)
	row("Father", r.FatherName)
	row("Admission No", r.AdmissionNo)
	row("Class", r.ClassName)
	row("Period", fmt.Sprintf("%s %s", r.Month, r.Year))
	row("Address", r.Address)
	pdf.Ln(4)

	row("Admission Fee", rupees(r.AdmissionFee))
	row("Tuition Fee", rupees(r.TuitionFee))
	row("Back Dues", rupees(r.BackDues))
	row("Extra", rupees(r.Extra))
	row("Total", rupees(r.Total))

	if outstanding := Outstanding(r); outstanding > 0 {
		pdf.Ln(2)
		row("Outstanding (Baki)", rupees(outstanding))
	}

	if len(r.Entries) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Monthly Entries", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 7, "Month", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Paid", "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "Baki", "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, "Status", "1", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, e := range r.Entries {
			status := "due"
			if e.Completed {
				status = "paid"
			}
			pdf.CellFormat(40, 7, fmt.Sprintf("%s %s", e.Month, e.Year), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, rupees(e.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, rupees(e.Baki), "1", 0, "R", false, 0, "")
			pdf.CellFormat(0, 7, status, "1", 1, "L", false, 0, "")
		}
	}

	if r.Description != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, r.Description, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
