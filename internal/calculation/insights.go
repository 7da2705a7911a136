package calculation

import (
	"fmt"
	"sort"

	"github.com/paytrend/salary-tracker/internal/domain"
	money "github.com/paytrend/salary-tracker/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ValueTransform maps an amount for a given year into another space (for
// example gross to net of tax) before comparisons are made.
type ValueTransform func(value decimal.Decimal, year int) (decimal.Decimal, error)

// BuildTableRows turns a salary series into per-year comparison rows. When
// transform is non-nil it is applied to the salary, the inflation-adjusted
// value and any reference value so every delta is computed in the same space.
// Reference years with a nil value are skipped.
func BuildTableRows(series []domain.SalaryDataPoint, reference []domain.ReferencePoint, transform ValueTransform) ([]domain.SalaryTableRow, error) {
	if len(series) == 0 {
		return []domain.SalaryTableRow{}, nil
	}

	sorted := append([]domain.SalaryDataPoint(nil), series...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	refByYear := make(map[int]domain.ReferencePoint, len(reference))
	for _, r := range reference {
		if r.Value == nil {
			continue
		}
		refByYear[r.Year] = r
	}

	apply := func(v decimal.Decimal, year int) (decimal.Decimal, error) {
		if transform == nil {
			return v, nil
		}
		out, err := transform(v, year)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transform value for %d: %w", year, err)
		}
		return out, nil
	}

	rows := make([]domain.SalaryTableRow, 0, len(sorted))
	var first, previous decimal.Decimal
	for i, point := range sorted {
		salary, err := apply(point.ActualPay, point.Year)
		if err != nil {
			return nil, err
		}
		adjusted, err := apply(point.InflationAdjustedPay, point.Year)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			first = salary
		}

		row := domain.SalaryTableRow{
			Year:                 point.Year,
			Salary:               salary,
			InflationAdjusted:    adjusted,
			IsInterpolated:       point.IsInterpolated,
			CumulativeChange:     salary.Sub(first),
			PurchasingPowerDelta: salary.Sub(adjusted),
		}
		row.CumulativePercent = money.PercentPtr(row.CumulativeChange, first)
		row.PurchasingPowerPercent = money.PercentPtr(row.PurchasingPowerDelta, adjusted)

		if i > 0 {
			change := salary.Sub(previous)
			row.YoYAbsoluteChange = &change
			row.YoYPercentChange = money.PercentPtr(change, previous)
		}

		if ref, ok := refByYear[point.Year]; ok {
			value, err := apply(*ref.Value, point.Year)
			if err != nil {
				return nil, err
			}
			gap := salary.Sub(value)
			row.Reference = &domain.ReferenceComparison{
				Value:      value,
				Gap:        gap,
				GapPercent: money.PercentPtr(gap, value),
				Type:       ref.Type,
				Confidence: ref.Confidence,
			}
		}

		rows = append(rows, row)
		previous = salary
	}

	return rows, nil
}

// BuildInsights scans the rows once, left to right, and reports the notable
// ones. Every "best" selection only moves on strict improvement, so the
// earliest row wins a tie.
func BuildInsights(rows []domain.SalaryTableRow) []domain.SalaryInsight {
	insights := []domain.SalaryInsight{}
	if len(rows) == 0 {
		return insights
	}

	var (
		raise, gain, loss *domain.SalaryTableRow
		winYears, lossYears []int
		bestWin, worstLoss  *domain.SalaryTableRow

		runStart, runLen   int
		bestStart, bestLen int
	)

	for i := range rows {
		row := &rows[i]

		if row.YoYAbsoluteChange != nil && row.YoYAbsoluteChange.IsPositive() {
			if raise == nil || row.YoYAbsoluteChange.GreaterThan(*raise.YoYAbsoluteChange) {
				raise = row
			}
		}

		if gain == nil || row.PurchasingPowerDelta.GreaterThan(gain.PurchasingPowerDelta) {
			gain = row
		}
		if loss == nil || row.PurchasingPowerDelta.LessThan(loss.PurchasingPowerDelta) {
			loss = row
		}

		if ref := row.Reference; ref != nil {
			if ref.Gap.IsNegative() {
				lossYears = append(lossYears, row.Year)
				if worstLoss == nil || ref.Gap.LessThan(worstLoss.Reference.Gap) {
					worstLoss = row
				}
			} else {
				winYears = append(winYears, row.Year)
				if bestWin == nil || ref.Gap.GreaterThan(bestWin.Reference.Gap) {
					bestWin = row
				}
			}
		}

		if row.PurchasingPowerDelta.IsPositive() {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen > bestLen {
				bestStart, bestLen = runStart, runLen
			}
		} else {
			runLen = 0
		}
	}

	if raise != nil {
		insights = append(insights, domain.LargestRaiseInsight{
			Year:          raise.Year,
			Change:        *raise.YoYAbsoluteChange,
			PercentChange: raise.YoYPercentChange,
			Salary:        raise.Salary,
		})
	}
	if gain.PurchasingPowerDelta.IsPositive() {
		insights = append(insights, domain.PurchasingPowerGainInsight{
			Year:    gain.Year,
			Delta:   gain.PurchasingPowerDelta,
			Percent: gain.PurchasingPowerPercent,
		})
	}
	if loss.PurchasingPowerDelta.IsNegative() {
		insights = append(insights, domain.PurchasingPowerLossInsight{
			Year:    loss.Year,
			Delta:   loss.PurchasingPowerDelta,
			Percent: loss.PurchasingPowerPercent,
		})
	}
	if bestWin != nil {
		insights = append(insights, domain.ReferenceWinsInsight{
			Years: winYears,
			Best:  referenceGap(bestWin),
		})
	}
	if worstLoss != nil {
		insights = append(insights, domain.ReferenceLossesInsight{
			Years: lossYears,
			Worst: referenceGap(worstLoss),
		})
	}
	if bestLen > 0 {
		insights = append(insights, domain.InflationBeatingStreakInsight{
			StartYear: rows[bestStart].Year,
			EndYear:   rows[bestStart+bestLen-1].Year,
			Length:    bestLen,
		})
	}

	return insights
}

// Insights builds the comparison rows and derives the insights from them.
func Insights(series []domain.SalaryDataPoint, reference []domain.ReferencePoint, transform ValueTransform) ([]domain.SalaryTableRow, []domain.SalaryInsight, error) {
	rows, err := BuildTableRows(series, reference, transform)
	if err != nil {
		return nil, nil, err
	}
	return rows, BuildInsights(rows), nil
}

func referenceGap(row *domain.SalaryTableRow) domain.ReferenceGap {
	return domain.ReferenceGap{
		Year:       row.Year,
		Gap:        row.Reference.Gap,
		GapPercent: row.Reference.GapPercent,
	}
}
