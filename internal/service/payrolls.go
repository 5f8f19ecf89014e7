package service

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
)

// PayrollAccessor adds the processing workflow to payroll CRUD.
type PayrollAccessor struct {
	*Accessor[domain.Payroll, *domain.Payroll]
}

// Process advances a payroll one step: Draft -> Processing -> Paid.
// Reaching Paid stamps processedAt.
func (a *PayrollAccessor) Process(ctx context.Context, id string) (domain.Payroll, error) {
	return a.mutate(ctx, "process", id, func(p *domain.Payroll) error {
		return p.Advance(a.now())
	})
}
