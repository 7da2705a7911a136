package calculation

import (
	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// inflationRates indexes a rate table by year. Later duplicates win.
func inflationRates(rates []domain.InflationDataPoint) map[int]decimal.Decimal {
	byYear := make(map[int]decimal.Decimal, len(rates))
	for _, r := range rates {
		byYear[r.Year] = r.Inflation
	}
	return byYear
}

// BuildInflationIndex returns the cumulative price multiplier for every year in
// [baseYear, endYear] relative to baseYear. A year without a rate counts as 0%.
// endYear before baseYear yields just the base entry.
func BuildInflationIndex(rates []domain.InflationDataPoint, baseYear, endYear int) map[int]decimal.Decimal {
	return buildIndex(inflationRates(rates), baseYear, endYear)
}

func buildIndex(byYear map[int]decimal.Decimal, baseYear, endYear int) map[int]decimal.Decimal {
	index := map[int]decimal.Decimal{baseYear: decimal.NewFromInt(1)}
	multiplier := decimal.NewFromInt(1)
	for y := baseYear + 1; y <= endYear; y++ {
		rate := byYear[y] // zero value when missing
		multiplier = multiplier.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred)))
		index[y] = multiplier
	}
	return index
}

// MissingInflationYears lists the years in (baseYear, endYear] that have no
// rate and were therefore compounded at 0%.
func MissingInflationYears(rates []domain.InflationDataPoint, baseYear, endYear int) []int {
	byYear := inflationRates(rates)
	var missing []int
	for y := baseYear + 1; y <= endYear; y++ {
		if _, ok := byYear[y]; !ok {
			missing = append(missing, y)
		}
	}
	return missing
}
