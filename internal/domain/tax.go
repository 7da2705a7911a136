package domain

import (
	"github.com/shopspring/decimal"
)

// RuleType names the supplementary progressive tax regime.
// Norway levied "toppskatt" (surtax) until 2015 and "trinnskatt" (bracket tax) since 2016.
type RuleType string

const (
	RuleSurtax  RuleType = "surtax"
	RuleBracket RuleType = "bracket"
)

// TaxBracket is one tier of the supplementary tax, levied on gross income above Threshold
type TaxBracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// StandardDeductionRule is the minimum deduction (minstefradrag): Rate of gross, clamped to [Floor, Cap]
type StandardDeductionRule struct {
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
	Floor decimal.Decimal `yaml:"floor" json:"floor"`
	Cap   decimal.Decimal `yaml:"cap" json:"cap"`
}

// YearlyTaxConfig holds one income year's tax rules
type YearlyTaxConfig struct {
	Year              int                   `yaml:"year" json:"year"`
	GeneralIncomeRate decimal.Decimal       `yaml:"general_income_rate" json:"general_income_rate"`
	PersonalDeduction decimal.Decimal       `yaml:"personal_deduction" json:"personal_deduction"`
	RuleType          RuleType              `yaml:"rule_type" json:"rule_type"`
	Brackets          []TaxBracket          `yaml:"brackets" json:"brackets"`
	StandardDeduction StandardDeductionRule `yaml:"standard_deduction" json:"standard_deduction"`
}

// TrygdeConfig holds one year's social security contribution (trygdeavgift) rule.
// Cap is informational and does not enter the calculation.
type TrygdeConfig struct {
	Year      int              `yaml:"year" json:"year"`
	Rate      decimal.Decimal  `yaml:"rate" json:"rate"`
	Threshold decimal.Decimal  `yaml:"threshold" json:"threshold"`
	Cap       *decimal.Decimal `yaml:"cap,omitempty" json:"cap,omitempty"`
}

// TaxRuleTables is the on-disk shape of the tax rule file
type TaxRuleTables struct {
	Metadata TaxRuleMetadata   `yaml:"metadata" json:"metadata"`
	TaxYears []YearlyTaxConfig `yaml:"tax_years" json:"tax_years"`
	Trygd    []TrygdeConfig    `yaml:"trygd" json:"trygd"`
}

// TaxRuleMetadata describes the source of a rule file
type TaxRuleMetadata struct {
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"source" json:"source"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
}

// TaxBreakdown decomposes the tax computation for one (year, gross income) pair
type TaxBreakdown struct {
	Year              int             `json:"year"`
	GrossIncome       decimal.Decimal `json:"gross_income"`
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	OrdinaryIncome    decimal.Decimal `json:"ordinary_income"`
	PersonalDeduction decimal.Decimal `json:"personal_deduction"`
	GeneralTaxBase    decimal.Decimal `json:"general_tax_base"`
	GeneralTax        decimal.Decimal `json:"general_tax"`
	RuleType          RuleType        `json:"rule_type"`
	BracketTax        decimal.Decimal `json:"bracket_tax"`
	TrygdeTax         decimal.Decimal `json:"trygde_tax"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	NetIncome         decimal.Decimal `json:"net_income"`
	EffectiveTaxRate  decimal.Decimal `json:"effective_tax_rate"`
}
