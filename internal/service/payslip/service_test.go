package payslip

import (
	"context"
	"testing"

	"github.com/jobhive/employer-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	svc := NewService("Acme Corp")
	name := "Jordan Diaz"

	data, err := svc.Render(context.Background(), payroll.PayrollEntryResponse{
		ID:           "entry-1",
		EmployeeName: &name,
		PeriodMonth:  1,
		PeriodYear:   2026,
		BaseSalary:   decimal.NewFromInt(5000),
		GrossPay:     decimal.NewFromInt(5000),
		NetPay:       decimal.NewFromInt(4500),
		Tax:          decimal.NewFromInt(500),
		Finalized:    true,
	})

	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_RejectsDraftEntry(t *testing.T) {
	svc := NewService("Acme Corp")

	_, err := svc.Render(context.Background(), payroll.PayrollEntryResponse{ID: "entry-1"})

	assert.ErrorIs(t, err, payroll.ErrEntryNotFinalized)
}
