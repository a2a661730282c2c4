package domain

import "context"

type MonthlyReportRequest struct {
	Year  int
	Month int
}

type ExpenseBreakdownRequest struct {
	Year  int
	Month int
}

type Service interface {
	// MonthlyReport computes the settlement for the house in context. The
	// roster covers every active member, zero-filled; meals recorded by
	// members who later went inactive still count toward the rate.
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)
	ExpenseBreakdown(ctx context.Context, req ExpenseBreakdownRequest) (ExpenseBreakdown, error)
}
