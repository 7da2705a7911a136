package domain

import (
	"github.com/shopspring/decimal"
)

// ReferenceType tells whether a benchmark value is published or estimated
type ReferenceType string

const (
	ReferenceOfficial  ReferenceType = "official"
	ReferenceEstimated ReferenceType = "estimated"
)

// ReferencePoint is one year of an external benchmark salary series.
// A nil Value means the provider had no figure for that year.
type ReferencePoint struct {
	Year       int              `yaml:"year" json:"year"`
	Value      *decimal.Decimal `yaml:"value,omitempty" json:"value"`
	Type       ReferenceType    `yaml:"type" json:"type"`
	Confidence string           `yaml:"confidence,omitempty" json:"confidence,omitempty"`
}

// ReferenceComparison compares a table row against the benchmark for its year
type ReferenceComparison struct {
	Value      decimal.Decimal  `json:"value"`
	Gap        decimal.Decimal  `json:"gap"`
	GapPercent *decimal.Decimal `json:"gap_percent"`
	Type       ReferenceType    `json:"type"`
	Confidence string           `json:"confidence,omitempty"`
}

// SalaryTableRow is the per-year comparison row. Pointer fields are nil
// when the value is undefined (first row, division by zero).
type SalaryTableRow struct {
	Year                   int                  `json:"year"`
	Salary                 decimal.Decimal      `json:"salary"`
	InflationAdjusted      decimal.Decimal      `json:"inflation_adjusted"`
	IsInterpolated         bool                 `json:"is_interpolated"`
	YoYAbsoluteChange      *decimal.Decimal     `json:"yoy_absolute_change"`
	YoYPercentChange       *decimal.Decimal     `json:"yoy_percent_change"`
	CumulativeChange       decimal.Decimal      `json:"cumulative_change"`
	CumulativePercent      *decimal.Decimal     `json:"cumulative_percent"`
	PurchasingPowerDelta   decimal.Decimal      `json:"purchasing_power_delta"`
	PurchasingPowerPercent *decimal.Decimal     `json:"purchasing_power_percent"`
	Reference              *ReferenceComparison `json:"reference,omitempty"`
}

// InsightKind discriminates the SalaryInsight union
type InsightKind string

const (
	KindLargestRaise           InsightKind = "largestRaise"
	KindPurchasingPowerGain    InsightKind = "purchasingPowerGain"
	KindPurchasingPowerLoss    InsightKind = "purchasingPowerLoss"
	KindReferenceWins          InsightKind = "referenceWins"
	KindReferenceLosses        InsightKind = "referenceLosses"
	KindInflationBeatingStreak InsightKind = "inflationBeatingStreak"
)

// SalaryInsight is a closed union; the concrete types below are the only members.
// Consumers switch on the concrete type.
type SalaryInsight interface {
	Kind() InsightKind
	isSalaryInsight()
}

// LargestRaiseInsight is the year with the biggest positive year-over-year change
type LargestRaiseInsight struct {
	Year          int              `json:"year"`
	Change        decimal.Decimal  `json:"change"`
	PercentChange *decimal.Decimal `json:"percent_change"`
	Salary        decimal.Decimal  `json:"salary"`
}

// PurchasingPowerGainInsight is the year furthest above the inflation baseline
type PurchasingPowerGainInsight struct {
	Year    int              `json:"year"`
	Delta   decimal.Decimal  `json:"delta"`
	Percent *decimal.Decimal `json:"percent"`
}

// PurchasingPowerLossInsight is the year furthest below the inflation baseline
type PurchasingPowerLossInsight struct {
	Year    int              `json:"year"`
	Delta   decimal.Decimal  `json:"delta"`
	Percent *decimal.Decimal `json:"percent"`
}

// ReferenceGap is one year's distance to the benchmark
type ReferenceGap struct {
	Year       int              `json:"year"`
	Gap        decimal.Decimal  `json:"gap"`
	GapPercent *decimal.Decimal `json:"gap_percent"`
}

// ReferenceWinsInsight lists the years at or above the benchmark
type ReferenceWinsInsight struct {
	Years []int        `json:"years"`
	Best  ReferenceGap `json:"best"`
}

// ReferenceLossesInsight lists the years below the benchmark
type ReferenceLossesInsight struct {
	Years []int        `json:"years"`
	Worst ReferenceGap `json:"worst"`
}

// InflationBeatingStreakInsight is the longest run of years above the baseline
type InflationBeatingStreakInsight struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
	Length    int `json:"length"`
}

func (LargestRaiseInsight) Kind() InsightKind           { return KindLargestRaise }
func (PurchasingPowerGainInsight) Kind() InsightKind    { return KindPurchasingPowerGain }
func (PurchasingPowerLossInsight) Kind() InsightKind    { return KindPurchasingPowerLoss }
func (ReferenceWinsInsight) Kind() InsightKind          { return KindReferenceWins }
func (ReferenceLossesInsight) Kind() InsightKind        { return KindReferenceLosses }
func (InflationBeatingStreakInsight) Kind() InsightKind { return KindInflationBeatingStreak }

func (LargestRaiseInsight) isSalaryInsight()           {}
func (PurchasingPowerGainInsight) isSalaryInsight()    {}
func (PurchasingPowerLossInsight) isSalaryInsight()    {}
func (ReferenceWinsInsight) isSalaryInsight()          {}
func (ReferenceLossesInsight) isSalaryInsight()        {}
func (InflationBeatingStreakInsight) isSalaryInsight() {}

// TaggedInsight wraps an insight with its kind for serialization
type TaggedInsight struct {
	Kind    InsightKind   `json:"kind"`
	Insight SalaryInsight `json:"insight"`
}

// TagInsights pairs each insight with its discriminator
func TagInsights(insights []SalaryInsight) []TaggedInsight {
	out := make([]TaggedInsight, 0, len(insights))
	for _, in := range insights {
		out = append(out, TaggedInsight{Kind: in.Kind(), Insight: in})
	}
	return out
}
