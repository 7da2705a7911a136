package calculation

import (
	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeStatistics reduces an ascending salary series to its headline numbers.
// An empty series returns statistics for which HasData is false.
func ComputeStatistics(series []domain.SalaryDataPoint) domain.SalaryStatistics {
	if len(series) == 0 {
		return domain.SalaryStatistics{StartingYear: domain.NoYear, LatestYear: domain.NoYear}
	}

	first := series[0]
	latest := series[len(series)-1]

	stats := domain.SalaryStatistics{
		StartingPay:          validDecimal(first.ActualPay),
		LatestPay:            validDecimal(latest.ActualPay),
		InflationAdjustedPay: validDecimal(latest.InflationAdjustedPay),
		StartingYear:         first.Year,
		LatestYear:           latest.Year,
	}

	// A zero baseline leaves the gap undefined
	if !latest.InflationAdjustedPay.IsZero() {
		gap := latest.ActualPay.Sub(latest.InflationAdjustedPay).
			Div(latest.InflationAdjustedPay).
			Mul(hundred).
			Round(1)
		stats.GapPercent = validDecimal(gap)
	}

	return stats
}

func validDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
