package service

import (
	"context"

	"github.com/alexanderramin/buildops/internal/domain"
)

// ReportAccessor adds the chart/table detail view to report CRUD.
type ReportAccessor struct {
	*Accessor[domain.Report, *domain.Report]
}

var (
	detailLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	detailDatasets = []domain.Series{
		{Label: "Budget", Data: []float64{65, 59, 80, 81, 56, 55}},
		{Label: "Actual", Data: []float64{28, 48, 40, 19, 86, 27}},
	}
	detailTable = []domain.VarianceRow{
		{ID: 1, Name: "Project A", Budget: 120000, Actual: 115000},
		{ID: 2, Name: "Project B", Budget: 85000, Actual: 92000},
		{ID: 3, Name: "Project C", Budget: 65000, Actual: 61000},
		{ID: 4, Name: "Project D", Budget: 175000, Actual: 168000},
		{ID: 5, Name: "Project E", Budget: 95000, Actual: 103000},
	}
)

// Detail returns the report with its chart series and variance table.
func (a *ReportAccessor) Detail(ctx context.Context, id string) (domain.ReportDetail, error) {
	var out domain.ReportDetail
	err := a.call(ctx, "detail", id, nil, func(ctx context.Context) error {
		r, err := a.store.Get(ctx, id)
		if err != nil {
			return err
		}
		out = domain.ReportDetail{Report: r, Labels: append([]string(nil), detailLabels...)}
		for _, s := range detailDatasets {
			out.Datasets = append(out.Datasets, domain.Series{Label: s.Label, Data: append([]float64(nil), s.Data...)})
		}
		for _, row := range detailTable {
			row.Variance = row.Actual - row.Budget
			out.Table = append(out.Table, row)
		}
		return nil
	})
	return out, err
}
