package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayReason records why a salary changed
type PayReason string

const (
	ReasonAdjustment PayReason = "adjustment"
	ReasonPromotion  PayReason = "promotion"
	ReasonNewJob     PayReason = "newJob"
)

// Valid reports whether r is one of the known reasons
func (r PayReason) Valid() bool {
	switch r {
	case ReasonAdjustment, ReasonPromotion, ReasonNewJob:
		return true
	}
	return false
}

// PayPoint is a single observed annual gross salary.
// The engine assumes at most one PayPoint per year.
type PayPoint struct {
	ID     string          `yaml:"id,omitempty" json:"id,omitempty"`
	Year   int             `yaml:"year" json:"year"`
	Pay    decimal.Decimal `yaml:"pay" json:"pay"`
	Reason PayReason       `yaml:"reason" json:"reason"`
	Note   string          `yaml:"note,omitempty" json:"note,omitempty"`
}

// InflationDataPoint is a yearly consumer price change in percent (3.5 means 3.5%)
type InflationDataPoint struct {
	Year      int             `yaml:"year" json:"year"`
	Inflation decimal.Decimal `yaml:"inflation" json:"inflation"`
}

// SalaryDataPoint is one year of the derived annual series
type SalaryDataPoint struct {
	Year                 int             `json:"year"`
	ActualPay            decimal.Decimal `json:"actual_pay"`
	InflationAdjustedPay decimal.Decimal `json:"inflation_adjusted_pay"`
	InflationRate        decimal.Decimal `json:"inflation_rate"`
	IsInterpolated       bool            `json:"is_interpolated"`
}

// NoYear marks an absent year in SalaryStatistics
const NoYear = 0

// SalaryStatistics summarizes a salary series. An empty series produces
// invalid NullDecimals and NoYear years.
type SalaryStatistics struct {
	StartingPay          decimal.NullDecimal `json:"starting_pay"`
	LatestPay            decimal.NullDecimal `json:"latest_pay"`
	InflationAdjustedPay decimal.NullDecimal `json:"inflation_adjusted_pay"`
	GapPercent           decimal.NullDecimal `json:"gap_percent"`
	StartingYear         int                 `json:"starting_year"`
	LatestYear           int                 `json:"latest_year"`
}

// HasData reports whether the statistics were computed from a non-empty series
func (s SalaryStatistics) HasData() bool {
	return s.StartingPay.Valid
}

// Dataset is the user-maintained input file: pay history plus optional
// inflation and benchmark series.
type Dataset struct {
	PayPoints []PayPoint           `yaml:"pay_points" json:"pay_points"`
	Inflation []InflationDataPoint `yaml:"inflation,omitempty" json:"inflation,omitempty"`
	Reference []ReferencePoint     `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// YearSpan returns the first and last pay point years.
func (d *Dataset) YearSpan() (int, int, error) {
	if len(d.PayPoints) == 0 {
		return NoYear, NoYear, fmt.Errorf("dataset has no pay points")
	}
	first, last := d.PayPoints[0].Year, d.PayPoints[0].Year
	for _, p := range d.PayPoints[1:] {
		if p.Year < first {
			first = p.Year
		}
		if p.Year > last {
			last = p.Year
		}
	}
	return first, last, nil
}
