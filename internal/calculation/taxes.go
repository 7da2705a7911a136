package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paytrend/salary-tracker/internal/domain"
	money "github.com/paytrend/salary-tracker/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. One taxpayer in tax class 1 with wage income only.
// 2. Rules are looked up by exact income year. There is no fallback to a
//    neighbouring year.
// 3. The bracket tax (trinnskatt, toppskatt before 2016) is levied on gross
//    income, not on the deduction-adjusted base.
// 4. Trygdeavgift is capped at 25% of income above the exemption threshold.
// 5. Tax components and net income are rounded to the nearest 10 kroner.

// ErrUnsupportedTaxYear is returned for income years with no configured rules
var ErrUnsupportedTaxYear = errors.New("unsupported tax year")

const (
	maxBoundDoublings = 20
	maxBisectionSteps = 30
)

var (
	two          = decimal.NewFromInt(2)
	trygdPhaseIn = decimal.NewFromFloat(0.25)
)

// RuleSet is an immutable, year-keyed view of the tax rule tables
type RuleSet struct {
	taxYears map[int]domain.YearlyTaxConfig
	trygd    map[int]domain.TrygdeConfig
}

// NewRuleSet indexes the tables by year. Brackets are copied and ordered by
// descending threshold. A year listed twice in either table is an error.
func NewRuleSet(tables domain.TaxRuleTables) (*RuleSet, error) {
	rs := &RuleSet{
		taxYears: make(map[int]domain.YearlyTaxConfig, len(tables.TaxYears)),
		trygd:    make(map[int]domain.TrygdeConfig, len(tables.Trygd)),
	}
	for _, cfg := range tables.TaxYears {
		if _, exists := rs.taxYears[cfg.Year]; exists {
			return nil, fmt.Errorf("duplicate tax rules for year %d", cfg.Year)
		}
		brackets := append([]domain.TaxBracket(nil), cfg.Brackets...)
		sort.SliceStable(brackets, func(i, j int) bool {
			return brackets[i].Threshold.GreaterThan(brackets[j].Threshold)
		})
		cfg.Brackets = brackets
		rs.taxYears[cfg.Year] = cfg
	}
	for _, t := range tables.Trygd {
		if _, exists := rs.trygd[t.Year]; exists {
			return nil, fmt.Errorf("duplicate trygdeavgift rules for year %d", t.Year)
		}
		rs.trygd[t.Year] = t
	}
	return rs, nil
}

// Years returns the income years that have both tax and trygdeavgift rules, ascending
func (rs *RuleSet) Years() []int {
	years := make([]int, 0, len(rs.taxYears))
	for y := range rs.taxYears {
		if _, ok := rs.trygd[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// Lookup returns the rules for exactly the given year
func (rs *RuleSet) Lookup(year int) (domain.YearlyTaxConfig, domain.TrygdeConfig, error) {
	cfg, ok := rs.taxYears[year]
	if !ok {
		return domain.YearlyTaxConfig{}, domain.TrygdeConfig{}, fmt.Errorf("%w: %d", ErrUnsupportedTaxYear, year)
	}
	trygd, ok := rs.trygd[year]
	if !ok {
		return domain.YearlyTaxConfig{}, domain.TrygdeConfig{}, fmt.Errorf("%w: %d (no trygdeavgift rules)", ErrUnsupportedTaxYear, year)
	}
	return cfg, trygd, nil
}

// TaxCalculator computes Norwegian income tax for a single wage earner.
// It holds no mutable state and is safe for concurrent use.
type TaxCalculator struct {
	Rules  *RuleSet
	Logger Logger
}

// NewTaxCalculator creates a tax calculator over the given rules
func NewTaxCalculator(rules *RuleSet) *TaxCalculator {
	return &TaxCalculator{Rules: rules, Logger: NopLogger{}}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (tc *TaxCalculator) SetLogger(l Logger) {
	tc.Logger = orNop(l)
}

// SupportedYears lists the configured income years
func (tc *TaxCalculator) SupportedYears() []int {
	return tc.Rules.Years()
}

// CalculateTaxBreakdown computes every tax component for one year's gross income
func (tc *TaxCalculator) CalculateTaxBreakdown(year int, grossIncome decimal.Decimal) (domain.TaxBreakdown, error) {
	cfg, trygd, err := tc.Rules.Lookup(year)
	if err != nil {
		return domain.TaxBreakdown{}, err
	}

	standardDeduction := money.Clamp(grossIncome.Mul(cfg.StandardDeduction.Rate), cfg.StandardDeduction.Floor, cfg.StandardDeduction.Cap)
	ordinaryIncome := money.NonNegative(grossIncome.Sub(standardDeduction))
	generalTaxBase := money.NonNegative(ordinaryIncome.Sub(cfg.PersonalDeduction))
	generalTax := money.Round10(generalTaxBase.Mul(cfg.GeneralIncomeRate))

	bracketTax := calculateBracketTax(cfg.Brackets, grossIncome)
	trygdeTax := calculateTrygdeavgift(trygd, grossIncome)

	totalTax := money.NonNegative(generalTax.Add(bracketTax).Add(trygdeTax))
	netIncome := money.Round10(grossIncome.Sub(totalTax))

	effective := decimal.Zero
	if grossIncome.IsPositive() {
		effective = totalTax.Div(grossIncome)
	}

	tc.Logger.Debugf("tax %d: gross=%s general=%s %s=%s trygd=%s net=%s",
		year, grossIncome.StringFixed(0), generalTax, cfg.RuleType, bracketTax, trygdeTax, netIncome)

	return domain.TaxBreakdown{
		Year:              year,
		GrossIncome:       grossIncome,
		StandardDeduction: standardDeduction,
		OrdinaryIncome:    ordinaryIncome,
		PersonalDeduction: cfg.PersonalDeduction,
		GeneralTaxBase:    generalTaxBase,
		GeneralTax:        generalTax,
		RuleType:          cfg.RuleType,
		BracketTax:        bracketTax,
		TrygdeTax:         trygdeTax,
		TotalTax:          totalTax,
		NetIncome:         netIncome,
		EffectiveTaxRate:  effective,
	}, nil
}

// calculateBracketTax walks brackets from the highest threshold down, taxing
// the slice of gross income above each threshold. Brackets must already be
// sorted by descending threshold.
func calculateBracketTax(brackets []domain.TaxBracket, grossIncome decimal.Decimal) decimal.Decimal {
	remaining := grossIncome
	total := decimal.Zero
	for _, b := range brackets {
		above := money.NonNegative(remaining.Sub(b.Threshold))
		total = total.Add(above.Mul(b.Rate).Round(0))
		remaining = decimal.Min(remaining, b.Threshold)
	}
	return money.Round10(total)
}

// calculateTrygdeavgift applies the flat contribution, limited to 25% of the
// income above the exemption threshold so there is no cliff just above it.
func calculateTrygdeavgift(rule domain.TrygdeConfig, grossIncome decimal.Decimal) decimal.Decimal {
	if grossIncome.LessThanOrEqual(rule.Threshold) {
		return decimal.Zero
	}
	flat := grossIncome.Mul(rule.Rate)
	phaseIn := money.NonNegative(grossIncome.Sub(rule.Threshold)).Mul(trygdPhaseIn)
	return money.Round10(decimal.Min(flat, phaseIn))
}

// CalculateNetIncome returns the income left after all taxes
func (tc *TaxCalculator) CalculateNetIncome(year int, grossIncome decimal.Decimal) (decimal.Decimal, error) {
	breakdown, err := tc.CalculateTaxBreakdown(year, grossIncome)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.NetIncome, nil
}

// EstimateGrossIncomeFromNet finds the gross income needed to take home
// targetNet, rounded up to the nearest 1000. Net income grows with gross
// income, so the upper bound is doubled until it reaches the target and the
// interval is then bisected.
func (tc *TaxCalculator) EstimateGrossIncomeFromNet(targetNet decimal.Decimal, year int) (decimal.Decimal, error) {
	if !targetNet.IsPositive() {
		return decimal.Zero, nil
	}

	low := decimal.Zero
	high := targetNet
	net, err := tc.CalculateNetIncome(year, high)
	if err != nil {
		return decimal.Zero, err
	}
	for i := 0; i < maxBoundDoublings && net.LessThan(targetNet); i++ {
		high = high.Mul(two)
		if net, err = tc.CalculateNetIncome(year, high); err != nil {
			return decimal.Zero, err
		}
	}
	if net.LessThan(targetNet) {
		tc.Logger.Warnf("net income target %s not reached after %d doublings; using %s", targetNet, maxBoundDoublings, high)
	}

	for i := 0; i < maxBisectionSteps; i++ {
		mid := low.Add(high).Div(two)
		midNet, err := tc.CalculateNetIncome(year, mid)
		if err != nil {
			return decimal.Zero, err
		}
		if midNet.GreaterThanOrEqual(targetNet) {
			high = mid
		} else {
			low = mid
		}
	}

	return money.CeilToThousand(high), nil
}

// NetOfTaxTransform converts gross amounts to net income for the amount's
// year, for comparing salaries after tax.
func (tc *TaxCalculator) NetOfTaxTransform() ValueTransform {
	return func(value decimal.Decimal, year int) (decimal.Decimal, error) {
		return tc.CalculateNetIncome(year, value)
	}
}
