package calculation

import (
	"sort"

	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildSalarySeries expands sparse pay points into one row per year from the
// earliest to the latest point. Years between points are linearly
// interpolated; the inflation-adjusted column is the first point's pay
// compounded by the yearly rates. Either input empty yields an empty series.
// Inputs are not modified.
func BuildSalarySeries(points []domain.PayPoint, rates []domain.InflationDataPoint) []domain.SalaryDataPoint {
	if len(points) == 0 || len(rates) == 0 {
		return []domain.SalaryDataPoint{}
	}

	sorted := append([]domain.PayPoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	byYear := inflationRates(rates)
	base := sorted[0]
	last := sorted[len(sorted)-1]
	index := buildIndex(byYear, base.Year, last.Year)

	series := make([]domain.SalaryDataPoint, 0, last.Year-base.Year+1)
	appendYear := func(year int, pay decimal.Decimal, interpolated bool) {
		series = append(series, domain.SalaryDataPoint{
			Year:                 year,
			ActualPay:            pay,
			InflationAdjustedPay: base.Pay.Mul(index[year]).Round(0),
			InflationRate:        byYear[year],
			IsInterpolated:       interpolated,
		})
	}

	appendYear(base.Year, base.Pay, false)
	for i := 1; i < len(sorted); i++ {
		from, to := sorted[i-1], sorted[i]
		span := decimal.NewFromInt(int64(to.Year - from.Year))
		step := to.Pay.Sub(from.Pay)
		for y := from.Year + 1; y < to.Year; y++ {
			offset := decimal.NewFromInt(int64(y - from.Year))
			appendYear(y, from.Pay.Add(step.Mul(offset).Div(span)), true)
		}
		appendYear(to.Year, to.Pay, false)
	}

	return series
}
