package bank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferGateway initiates salary transfers. The real gateway lives outside
// this module; payroll finalization only records the returned reference.
type TransferGateway interface {
	Transfer(ctx context.Context, accountRef string, amount decimal.Decimal) (reference string, err error)
}

// StubGateway satisfies TransferGateway without moving money. It fabricates a
// unique reference so finalized entries always carry one.
type StubGateway struct{}

func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

func (g *StubGateway) Transfer(ctx context.Context, accountRef string, amount decimal.Decimal) (string, error) {
	ref := fmt.Sprintf("TRF-%s", uuid.NewString())
	slog.Info("bank transfer stubbed", "account_ref", accountRef, "amount", amount.StringFixed(2), "reference", ref)
	return ref, nil
}
