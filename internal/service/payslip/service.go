// Package payslip renders finalized payroll entries as downloadable PDF
// payslips.
package payslip

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Service interface {
	// Render produces the PDF for a finalized entry obtained via
	// PayrollService.GetPayslip.
	Render(ctx context.Context, entry payroll.PayrollEntryResponse) ([]byte, error)
}

type serviceImpl struct {
	companyName string
}

func NewService(companyName string) Service {
	return &serviceImpl{companyName: companyName}
}

func (s *serviceImpl) Render(ctx context.Context, entry payroll.PayrollEntryResponse) ([]byte, error) {
	if !entry.Finalized {
		return nil, payroll.ErrEntryNotFinalized
	}

	period := time.Date(entry.PeriodYear, time.Month(entry.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if s.companyName != "" {
		pdf.Cell(0, 8, s.companyName)
		pdf.Ln(7)
	}
	if entry.EmployeeName != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", *entry.EmployeeName))
		pdf.Ln(7)
	}
	if entry.EmployeeCode != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Employee code: %s", *entry.EmployeeCode))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(10)

	s.amountRow(pdf, "Base salary", entry.BaseSalary)
	if entry.HoursWorked.IsPositive() {
		pdf.Cell(0, 8, fmt.Sprintf("Hours worked: %s", entry.HoursWorked.StringFixed(2)))
		pdf.Ln(7)
	}
	if entry.OvertimeHours.IsPositive() {
		pdf.Cell(0, 8, fmt.Sprintf("Overtime hours: %s", entry.OvertimeHours.StringFixed(2)))
		pdf.Ln(7)
	}
	if entry.WeekendHolidayPay.IsPositive() {
		s.amountRow(pdf, "Weekend/holiday pay", entry.WeekendHolidayPay)
	}
	if entry.Bonus.IsPositive() {
		s.amountRow(pdf, "Bonus", entry.Bonus)
	}
	s.amountRow(pdf, "Gross pay", entry.GrossPay)
	s.amountRow(pdf, "Deductions", entry.Deductions)
	s.amountRow(pdf, "Tax", entry.Tax)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	s.amountRow(pdf, "Net pay", entry.NetPay)

	pdf.SetFont("Helvetica", "", 10)
	if entry.TransferRef != nil {
		pdf.Ln(3)
		pdf.Cell(0, 8, fmt.Sprintf("Transfer reference: %s", *entry.TransferRef))
		pdf.Ln(6)
	}
	if entry.AdjustsEntryID != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Adjustment of entry %s", *entry.AdjustsEntryID))
		if entry.Note != nil {
			pdf.Ln(6)
			pdf.Cell(0, 8, fmt.Sprintf("Reason: %s", *entry.Note))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *serviceImpl) amountRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.Cell(0, 8, fmt.Sprintf("%s: %s", label, amount.StringFixed(2)))
	pdf.Ln(7)
}
