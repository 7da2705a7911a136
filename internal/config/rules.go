package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rules/norway.yaml
var norwayRules []byte

//go:embed rules/cpi.yaml
var defaultCPI []byte

// DefaultRuleTables returns the embedded Norwegian tax rules
func DefaultRuleTables() (domain.TaxRuleTables, error) {
	return ParseRuleTables(norwayRules)
}

// LoadRuleTables reads tax rules from filename, or returns the embedded
// rules when filename is empty.
func LoadRuleTables(filename string) (domain.TaxRuleTables, error) {
	if filename == "" {
		return DefaultRuleTables()
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.TaxRuleTables{}, fmt.Errorf("failed to read tax rules %s: %w", filename, err)
	}
	tables, err := ParseRuleTables(data)
	if err != nil {
		return domain.TaxRuleTables{}, fmt.Errorf("%s: %w", filename, err)
	}
	return tables, nil
}

// ParseRuleTables decodes and validates a tax rule document
func ParseRuleTables(data []byte) (domain.TaxRuleTables, error) {
	var tables domain.TaxRuleTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return domain.TaxRuleTables{}, fmt.Errorf("failed to parse tax rules: %w", err)
	}
	if err := validateRuleTables(&tables); err != nil {
		return domain.TaxRuleTables{}, fmt.Errorf("tax rules validation failed: %w", err)
	}
	return tables, nil
}

func validateRuleTables(tables *domain.TaxRuleTables) error {
	if len(tables.TaxYears) == 0 {
		return fmt.Errorf("no tax years provided")
	}

	one := decimal.NewFromInt(1)
	validRate := func(r decimal.Decimal) bool {
		return !r.IsNegative() && r.LessThan(one)
	}

	for _, cfg := range tables.TaxYears {
		if err := validateYear(cfg.Year); err != nil {
			return err
		}
		if !validRate(cfg.GeneralIncomeRate) {
			return fmt.Errorf("%d: general income rate must be between 0 and 1", cfg.Year)
		}
		if cfg.PersonalDeduction.IsNegative() {
			return fmt.Errorf("%d: personal deduction cannot be negative", cfg.Year)
		}
		if cfg.RuleType != domain.RuleSurtax && cfg.RuleType != domain.RuleBracket {
			return fmt.Errorf("%d: rule type must be 'surtax' or 'bracket'", cfg.Year)
		}
		sd := cfg.StandardDeduction
		if !validRate(sd.Rate) {
			return fmt.Errorf("%d: standard deduction rate must be between 0 and 1", cfg.Year)
		}
		if sd.Floor.IsNegative() || sd.Cap.LessThan(sd.Floor) {
			return fmt.Errorf("%d: standard deduction requires 0 <= floor <= cap", cfg.Year)
		}
		for _, b := range cfg.Brackets {
			if b.Threshold.IsNegative() || !validRate(b.Rate) {
				return fmt.Errorf("%d: bracket at %s has an invalid threshold or rate", cfg.Year, b.Threshold)
			}
		}
	}

	for _, t := range tables.Trygd {
		if err := validateYear(t.Year); err != nil {
			return err
		}
		if !validRate(t.Rate) || t.Threshold.IsNegative() {
			return fmt.Errorf("trygdeavgift %d: invalid rate or threshold", t.Year)
		}
	}

	return nil
}

// DefaultInflation returns the embedded consumer price index table
func DefaultInflation() ([]domain.InflationDataPoint, error) {
	var rates []domain.InflationDataPoint
	if err := yaml.Unmarshal(defaultCPI, &rates); err != nil {
		return nil, fmt.Errorf("failed to parse embedded CPI table: %w", err)
	}
	return rates, nil
}
