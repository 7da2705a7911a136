package calculation

import (
	"errors"
	"testing"

	"github.com/paytrend/salary-tracker/internal/config"
	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bracket(threshold int64, rate string) domain.TaxBracket {
	return domain.TaxBracket{Threshold: decimal.NewFromInt(threshold), Rate: dec(rate)}
}

// testRuleTables mirrors the published 2015 and 2024 rules. 2030 has income
// tax rules but no trygdeavgift rule.
func testRuleTables() domain.TaxRuleTables {
	return domain.TaxRuleTables{
		TaxYears: []domain.YearlyTaxConfig{
			{
				Year:              2015,
				GeneralIncomeRate: dec("0.27"),
				PersonalDeduction: decimal.NewFromInt(50400),
				RuleType:          domain.RuleSurtax,
				Brackets:          []domain.TaxBracket{bracket(550550, "0.09"), bracket(885600, "0.12")},
				StandardDeduction: domain.StandardDeductionRule{Rate: dec("0.43"), Floor: decimal.NewFromInt(4000), Cap: decimal.NewFromInt(89050)},
			},
			{
				Year:              2024,
				GeneralIncomeRate: dec("0.22"),
				PersonalDeduction: decimal.NewFromInt(88250),
				RuleType:          domain.RuleBracket,
				Brackets: []domain.TaxBracket{
					bracket(208050, "0.017"),
					bracket(292850, "0.04"),
					bracket(670000, "0.136"),
					bracket(937900, "0.166"),
					bracket(1350000, "0.176"),
				},
				StandardDeduction: domain.StandardDeductionRule{Rate: dec("0.46"), Floor: decimal.Zero, Cap: decimal.NewFromInt(104450)},
			},
			{
				Year:              2030,
				GeneralIncomeRate: dec("0.22"),
				PersonalDeduction: decimal.NewFromInt(90000),
				RuleType:          domain.RuleBracket,
				StandardDeduction: domain.StandardDeductionRule{Rate: dec("0.46"), Cap: decimal.NewFromInt(100000)},
			},
		},
		Trygd: []domain.TrygdeConfig{
			{Year: 2015, Rate: dec("0.082"), Threshold: decimal.NewFromInt(49650)},
			{Year: 2024, Rate: dec("0.078"), Threshold: decimal.NewFromInt(69650)},
		},
	}
}

func newTestCalculator(t *testing.T) *TaxCalculator {
	t.Helper()
	rules, err := NewRuleSet(testRuleTables())
	require.NoError(t, err)
	return NewTaxCalculator(rules)
}

func newEmbeddedCalculator(t *testing.T) *TaxCalculator {
	t.Helper()
	tables, err := config.DefaultRuleTables()
	require.NoError(t, err)
	rules, err := NewRuleSet(tables)
	require.NoError(t, err)
	return NewTaxCalculator(rules)
}

func TestCalculateTaxBreakdown(t *testing.T) {
	tc := newTestCalculator(t)

	tests := []struct {
		name              string
		year              int
		gross             int64
		standardDeduction string
		generalTax        string
		bracketTax        string
		trygd             string
		totalTax          string
		net               string
	}{
		{
			name:              "bracket tax regime above deduction cap",
			year:              2024,
			gross:             600000,
			standardDeduction: "104450",
			generalTax:        "89610", // (600000-104450-88250)*0.22 = 89606
			bracketTax:        "13730", // 307150*0.04 + 84800*0.017 = 12286 + 1442
			trygd:             "46800",
			totalTax:          "150140",
			net:               "449860",
		},
		{
			name:              "trygdeavgift phase-in below personal deduction",
			year:              2024,
			gross:             80000,
			standardDeduction: "36800",
			generalTax:        "0",
			bracketTax:        "0",
			trygd:             "2590", // (80000-69650)*0.25 = 2587.5
			totalTax:          "2590",
			net:               "77410",
		},
		{
			name:              "income at trygdeavgift threshold",
			year:              2024,
			gross:             69650,
			standardDeduction: "32039",
			generalTax:        "0",
			bracketTax:        "0",
			trygd:             "0",
			totalTax:          "0",
			net:               "69650",
		},
		{
			name:              "surtax regime",
			year:              2015,
			gross:             1000000,
			standardDeduction: "89050",
			generalTax:        "232350", // 860550*0.27 = 232348.5
			bracketTax:        "43880",  // 114400*0.12 + 335050*0.09 = 13728 + 30155
			trygd:             "82000",
			totalTax:          "358230",
			net:               "641770",
		},
		{
			name:              "standard deduction floor",
			year:              2015,
			gross:             5000,
			standardDeduction: "4000",
			generalTax:        "0",
			bracketTax:        "0",
			trygd:             "0",
			totalTax:          "0",
			net:               "5000",
		},
		{
			name:              "zero income",
			year:              2024,
			gross:             0,
			standardDeduction: "0",
			generalTax:        "0",
			bracketTax:        "0",
			trygd:             "0",
			totalTax:          "0",
			net:               "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tc.CalculateTaxBreakdown(tt.year, decimal.NewFromInt(tt.gross))
			require.NoError(t, err)

			assert.Equal(t, tt.year, b.Year)
			assert.True(t, b.StandardDeduction.Equal(dec(tt.standardDeduction)), "standard deduction: %s", b.StandardDeduction)
			assert.True(t, b.GeneralTax.Equal(dec(tt.generalTax)), "general tax: %s", b.GeneralTax)
			assert.True(t, b.BracketTax.Equal(dec(tt.bracketTax)), "bracket tax: %s", b.BracketTax)
			assert.True(t, b.TrygdeTax.Equal(dec(tt.trygd)), "trygdeavgift: %s", b.TrygdeTax)
			assert.True(t, b.TotalTax.Equal(dec(tt.totalTax)), "total: %s", b.TotalTax)
			assert.True(t, b.NetIncome.Equal(dec(tt.net)), "net: %s", b.NetIncome)
			assert.False(t, b.TotalTax.IsNegative())
			assert.True(t, b.NetIncome.LessThanOrEqual(b.GrossIncome.Add(decimal.NewFromInt(5))))
		})
	}
}

func TestCalculateTaxBreakdown_ZeroIncomeHasZeroComponents(t *testing.T) {
	tc := newTestCalculator(t)
	b, err := tc.CalculateTaxBreakdown(2024, decimal.Zero)
	require.NoError(t, err)

	for name, v := range map[string]decimal.Decimal{
		"standard deduction": b.StandardDeduction,
		"ordinary income":    b.OrdinaryIncome,
		"general tax base":   b.GeneralTaxBase,
		"general tax":        b.GeneralTax,
		"bracket tax":        b.BracketTax,
		"trygdeavgift":       b.TrygdeTax,
		"total":              b.TotalTax,
		"net":                b.NetIncome,
		"effective rate":     b.EffectiveTaxRate,
	} {
		assert.True(t, v.IsZero(), "%s: %s", name, v)
	}
}

func TestCalculateTaxBreakdown_UnsupportedYear(t *testing.T) {
	tc := newTestCalculator(t)

	_, err := tc.CalculateTaxBreakdown(1999, decimal.NewFromInt(500000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedTaxYear))
	assert.Contains(t, err.Error(), "1999")

	_, err = tc.CalculateTaxBreakdown(2030, decimal.NewFromInt(500000))
	assert.ErrorIs(t, err, ErrUnsupportedTaxYear, "a year without trygdeavgift rules is unsupported")

	_, err = tc.CalculateNetIncome(1999, decimal.NewFromInt(500000))
	assert.ErrorIs(t, err, ErrUnsupportedTaxYear)
}

func TestNewRuleSet(t *testing.T) {
	t.Run("orders brackets by descending threshold", func(t *testing.T) {
		tables := testRuleTables()
		rules, err := NewRuleSet(tables)
		require.NoError(t, err)

		cfg, _, err := rules.Lookup(2024)
		require.NoError(t, err)
		for i := 1; i < len(cfg.Brackets); i++ {
			assert.True(t, cfg.Brackets[i-1].Threshold.GreaterThan(cfg.Brackets[i].Threshold))
		}
		assert.True(t, tables.TaxYears[1].Brackets[0].Threshold.Equal(decimal.NewFromInt(208050)), "input tables are not reordered")
	})

	t.Run("rejects duplicate tax years", func(t *testing.T) {
		tables := testRuleTables()
		tables.TaxYears = append(tables.TaxYears, tables.TaxYears[0])
		_, err := NewRuleSet(tables)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate trygdeavgift years", func(t *testing.T) {
		tables := testRuleTables()
		tables.Trygd = append(tables.Trygd, tables.Trygd[1])
		_, err := NewRuleSet(tables)
		assert.Error(t, err)
	})
}

func TestSupportedYears(t *testing.T) {
	tc := newTestCalculator(t)
	assert.Equal(t, []int{2015, 2024}, tc.SupportedYears())
}

func TestEstimateGrossIncomeFromNet(t *testing.T) {
	tc := newTestCalculator(t)

	t.Run("non-positive target", func(t *testing.T) {
		for _, target := range []int64{0, -100} {
			gross, err := tc.EstimateGrossIncomeFromNet(decimal.NewFromInt(target), 2024)
			require.NoError(t, err)
			assert.True(t, gross.IsZero())
		}
	})

	t.Run("recovers a known gross income", func(t *testing.T) {
		gross, err := tc.EstimateGrossIncomeFromNet(decimal.NewFromInt(449860), 2024)
		require.NoError(t, err)
		assert.True(t, gross.Equal(decimal.NewFromInt(600000)), "gross: %s", gross)
	})

	t.Run("unsupported year", func(t *testing.T) {
		_, err := tc.EstimateGrossIncomeFromNet(decimal.NewFromInt(400000), 2030)
		assert.ErrorIs(t, err, ErrUnsupportedTaxYear)
	})
}

func TestNetIncomeIsMonotonic(t *testing.T) {
	tc := newEmbeddedCalculator(t)
	step := decimal.NewFromInt(5000)
	limit := decimal.NewFromInt(3000000)

	for _, year := range tc.SupportedYears() {
		previous := decimal.Zero
		for gross := decimal.Zero; gross.LessThanOrEqual(limit); gross = gross.Add(step) {
			net, err := tc.CalculateNetIncome(year, gross)
			require.NoError(t, err)
			require.True(t, net.GreaterThanOrEqual(previous), "year %d: net fell at gross %s", year, gross)
			previous = net
		}
	}
}

func TestEstimateGrossIncomeFromNet_RoundTrip(t *testing.T) {
	tc := newEmbeddedCalculator(t)
	tolerance := decimal.NewFromInt(50)

	for _, year := range tc.SupportedYears() {
		for _, target := range []int64{150000, 320000, 475000, 800000, 1250000} {
			net := decimal.NewFromInt(target)
			gross, err := tc.EstimateGrossIncomeFromNet(net, year)
			require.NoError(t, err)
			assert.True(t, gross.Mod(decimal.NewFromInt(1000)).IsZero(), "year %d: %s is not whole thousands", year, gross)

			achieved, err := tc.CalculateNetIncome(year, gross)
			require.NoError(t, err)
			assert.True(t, achieved.GreaterThanOrEqual(net.Sub(tolerance)),
				"year %d: gross %s gives net %s, want at least %s", year, gross, achieved, net)
		}
	}
}

func TestNetOfTaxTransform(t *testing.T) {
	tc := newTestCalculator(t)
	transform := tc.NetOfTaxTransform()

	net, err := transform(decimal.NewFromInt(600000), 2024)
	require.NoError(t, err)
	assert.True(t, net.Equal(decimal.NewFromInt(449860)))

	_, err = transform(decimal.NewFromInt(600000), 2000)
	assert.ErrorIs(t, err, ErrUnsupportedTaxYear)

	series := []domain.SalaryDataPoint{
		seriesPoint(2015, "1000000", "1000000"),
		seriesPoint(2016, "1100000", "1050000"),
	}
	_, err = BuildTableRows(series, nil, transform)
	assert.ErrorIs(t, err, ErrUnsupportedTaxYear, "2016 is not in the test tables")
}

func TestTaxCalculatorLogging(t *testing.T) {
	tc := newTestCalculator(t)
	rec := &recordingLogger{}
	tc.SetLogger(rec)

	_, err := tc.CalculateNetIncome(2024, decimal.NewFromInt(600000))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.debug)

	tc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, tc.Logger)
}

type recordingLogger struct {
	NopLogger
	debug []string
}

func (r *recordingLogger) Debugf(format string, args ...any) {
	r.debug = append(r.debug, format)
}
