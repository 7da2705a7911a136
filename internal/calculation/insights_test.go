package calculation

import (
	"errors"
	"testing"

	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesPoint(year int, actual, adjusted string) domain.SalaryDataPoint {
	return domain.SalaryDataPoint{Year: year, ActualPay: dec(actual), InflationAdjustedPay: dec(adjusted)}
}

func refPoint(year int, value string) domain.ReferencePoint {
	r := domain.ReferencePoint{Year: year, Type: domain.ReferenceOfficial, Confidence: "high"}
	if value != "" {
		v := dec(value)
		r.Value = &v
	}
	return r
}

// purchasing power deltas: 0, 20, 5, -10, 20, 15, -10, 3
// year-over-year changes:   -, 20, -10, -10, 30, 5, -10, 30
func tieBreakSeries() []domain.SalaryDataPoint {
	return []domain.SalaryDataPoint{
		seriesPoint(2010, "100", "100"),
		seriesPoint(2011, "120", "100"),
		seriesPoint(2012, "110", "105"),
		seriesPoint(2013, "100", "110"),
		seriesPoint(2014, "130", "110"),
		seriesPoint(2015, "135", "120"),
		seriesPoint(2016, "125", "135"),
		seriesPoint(2017, "155", "152"),
	}
}

func tieBreakReference() []domain.ReferencePoint {
	return []domain.ReferencePoint{
		refPoint(2010, "90"),
		refPoint(2011, ""),
		refPoint(2012, "110"),
		refPoint(2013, "120"),
		refPoint(2014, "100"),
		refPoint(2016, "150"),
		refPoint(2017, "180"),
	}
}

func TestBuildTableRows_ScenarioA(t *testing.T) {
	points, rates := scenarioA()
	rows, err := BuildTableRows(BuildSalarySeries(points, rates), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Nil(t, first.YoYAbsoluteChange)
	assert.Nil(t, first.YoYPercentChange)
	assert.True(t, first.CumulativeChange.IsZero())
	require.NotNil(t, first.CumulativePercent)
	assert.True(t, first.CumulativePercent.IsZero())
	assert.True(t, first.PurchasingPowerDelta.IsZero())
	assert.Nil(t, first.Reference)

	second := rows[1]
	require.NotNil(t, second.YoYAbsoluteChange)
	assert.True(t, second.YoYAbsoluteChange.Equal(dec("50000")))
	assert.True(t, second.YoYPercentChange.Equal(dec("10")))
	assert.True(t, second.CumulativeChange.Equal(dec("50000")))
	assert.True(t, second.PurchasingPowerDelta.Equal(dec("40000")))
	assert.True(t, second.IsInterpolated)

	third := rows[2]
	assert.True(t, third.CumulativeChange.Equal(dec("100000")))
	assert.True(t, third.CumulativePercent.Equal(dec("20")))
	assert.True(t, third.PurchasingPowerDelta.Equal(dec("74700")))
	assert.Equal(t, "9.09", third.YoYPercentChange.StringFixed(2))
}

func TestBuildTableRows_SortsCopy(t *testing.T) {
	series := []domain.SalaryDataPoint{
		seriesPoint(2022, "600000", "525300"),
		seriesPoint(2020, "500000", "500000"),
		seriesPoint(2021, "550000", "510000"),
	}
	before := append([]domain.SalaryDataPoint(nil), series...)

	rows, err := BuildTableRows(series, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, before, series)
	assert.Equal(t, []int{2020, 2021, 2022}, []int{rows[0].Year, rows[1].Year, rows[2].Year})
}

func TestBuildTableRows_ZeroDenominators(t *testing.T) {
	series := []domain.SalaryDataPoint{
		seriesPoint(2020, "0", "0"),
		seriesPoint(2021, "100", "0"),
	}
	rows, err := BuildTableRows(series, []domain.ReferencePoint{refPoint(2021, "0")}, nil)
	require.NoError(t, err)

	assert.Nil(t, rows[0].CumulativePercent)
	assert.Nil(t, rows[0].PurchasingPowerPercent)
	require.NotNil(t, rows[1].YoYAbsoluteChange)
	assert.Nil(t, rows[1].YoYPercentChange)
	require.NotNil(t, rows[1].Reference)
	assert.True(t, rows[1].Reference.Gap.Equal(dec("100")))
	assert.Nil(t, rows[1].Reference.GapPercent)
}

func TestBuildTableRows_TransformAppliedUniformly(t *testing.T) {
	var seen []int
	halve := func(v decimal.Decimal, year int) (decimal.Decimal, error) {
		seen = append(seen, year)
		return v.Div(decimal.NewFromInt(2)), nil
	}
	series := []domain.SalaryDataPoint{
		seriesPoint(2020, "400", "400"),
		seriesPoint(2021, "500", "420"),
	}
	rows, err := BuildTableRows(series, []domain.ReferencePoint{refPoint(2021, "480")}, halve)
	require.NoError(t, err)

	assert.Equal(t, []int{2020, 2020, 2021, 2021, 2021}, seen)
	assert.True(t, rows[1].Salary.Equal(dec("250")))
	assert.True(t, rows[1].InflationAdjusted.Equal(dec("210")))
	assert.True(t, rows[1].YoYAbsoluteChange.Equal(dec("50")))
	assert.True(t, rows[1].YoYPercentChange.Equal(dec("25")))
	assert.True(t, rows[1].PurchasingPowerDelta.Equal(dec("40")))
	assert.True(t, rows[1].Reference.Value.Equal(dec("240")))
	assert.True(t, rows[1].Reference.Gap.Equal(dec("10")))
}

func TestBuildTableRows_TransformError(t *testing.T) {
	boom := errors.New("boom")
	failing := func(v decimal.Decimal, year int) (decimal.Decimal, error) {
		if year == 2021 {
			return decimal.Zero, boom
		}
		return v, nil
	}
	points, rates := scenarioA()
	rows, err := BuildTableRows(BuildSalarySeries(points, rates), nil, failing)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2021")
}

func TestBuildInsights_ScenarioA(t *testing.T) {
	points, rates := scenarioA()
	_, insights, err := Insights(BuildSalarySeries(points, rates), nil, nil)
	require.NoError(t, err)
	require.Len(t, insights, 3)

	raise, ok := insights[0].(domain.LargestRaiseInsight)
	require.True(t, ok)
	assert.Equal(t, 2021, raise.Year, "equal raises keep the first year")
	assert.True(t, raise.Change.Equal(dec("50000")))

	gain, ok := insights[1].(domain.PurchasingPowerGainInsight)
	require.True(t, ok)
	assert.Equal(t, 2022, gain.Year)
	assert.True(t, gain.Delta.Equal(dec("74700")))

	streak, ok := insights[2].(domain.InflationBeatingStreakInsight)
	require.True(t, ok)
	assert.Equal(t, domain.InflationBeatingStreakInsight{StartYear: 2021, EndYear: 2022, Length: 2}, streak)
}

func TestBuildInsights_TieBreaking(t *testing.T) {
	rows, err := BuildTableRows(tieBreakSeries(), tieBreakReference(), nil)
	require.NoError(t, err)
	insights := BuildInsights(rows)

	kinds := make([]domain.InsightKind, 0, len(insights))
	for _, in := range insights {
		kinds = append(kinds, in.Kind())
	}
	assert.Equal(t, []domain.InsightKind{
		domain.KindLargestRaise,
		domain.KindPurchasingPowerGain,
		domain.KindPurchasingPowerLoss,
		domain.KindReferenceWins,
		domain.KindReferenceLosses,
		domain.KindInflationBeatingStreak,
	}, kinds)

	raise := insights[0].(domain.LargestRaiseInsight)
	assert.Equal(t, 2014, raise.Year)
	assert.True(t, raise.Change.Equal(dec("30")))

	gain := insights[1].(domain.PurchasingPowerGainInsight)
	assert.Equal(t, 2011, gain.Year)
	assert.True(t, gain.Delta.Equal(dec("20")))

	loss := insights[2].(domain.PurchasingPowerLossInsight)
	assert.Equal(t, 2013, loss.Year)
	assert.True(t, loss.Delta.Equal(dec("-10")))

	wins := insights[3].(domain.ReferenceWinsInsight)
	assert.Equal(t, []int{2010, 2012, 2014}, wins.Years)
	assert.Equal(t, 2014, wins.Best.Year)
	assert.True(t, wins.Best.Gap.Equal(dec("30")))
	assert.True(t, wins.Best.GapPercent.Equal(dec("30")))

	losses := insights[4].(domain.ReferenceLossesInsight)
	assert.Equal(t, []int{2013, 2016, 2017}, losses.Years)
	assert.Equal(t, 2016, losses.Worst.Year)
	assert.True(t, losses.Worst.Gap.Equal(dec("-25")))

	streak := insights[5].(domain.InflationBeatingStreakInsight)
	assert.Equal(t, domain.InflationBeatingStreakInsight{StartYear: 2011, EndYear: 2012, Length: 2}, streak)
}

func TestBuildInsights_LongerLaterStreakWins(t *testing.T) {
	series := []domain.SalaryDataPoint{
		seriesPoint(2000, "110", "100"),
		seriesPoint(2001, "90", "100"),
		seriesPoint(2002, "120", "100"),
		seriesPoint(2003, "125", "101"),
		seriesPoint(2004, "130", "102"),
	}
	rows, err := BuildTableRows(series, nil, nil)
	require.NoError(t, err)

	var streak *domain.InflationBeatingStreakInsight
	for _, in := range BuildInsights(rows) {
		if s, ok := in.(domain.InflationBeatingStreakInsight); ok {
			streak = &s
		}
	}
	require.NotNil(t, streak)
	assert.Equal(t, 2002, streak.StartYear)
	assert.Equal(t, 2004, streak.EndYear)
	assert.Equal(t, 3, streak.Length)
}

func TestBuildInsights_NoQualifyingRows(t *testing.T) {
	series := []domain.SalaryDataPoint{
		seriesPoint(2020, "100", "100"),
		seriesPoint(2021, "100", "100"),
	}
	rows, err := BuildTableRows(series, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, BuildInsights(rows))
}

func TestBuildInsights_EmptySeriesIgnoresReference(t *testing.T) {
	rows, insights, err := Insights(nil, tieBreakReference(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}
