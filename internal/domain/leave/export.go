package leave

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var registerColumns = []struct {
	title string
	width float64
}{
	{"Request", 22},
	{"Employee", 42},
	{"Type", 24},
	{"From", 24},
	{"To", 24},
	{"Days", 12},
	{"Status", 22},
	{"Resolved by", 30},
}

// WriteRegisterPDF renders requests as a one-table leave register.
func WriteRegisterPDF(w io.Writer, requests []Request, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Leave register", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave register")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d request(s)", generatedAt.Format(TimestampLayout), len(requests)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range registerColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, req := range requests {
		cells := []string{
			req.ID,
			fmt.Sprintf("%s (%s)", req.EmployeeName, req.EmployeeID),
			string(req.Type),
			req.StartDate.Format(DateLayout),
			req.EndDate.Format(DateLayout),
			fmt.Sprintf("%d", req.Days),
			string(req.Status),
			req.ResolvedBy,
		}
		for i, col := range registerColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render leave register: %w", err)
	}
	return nil
}
