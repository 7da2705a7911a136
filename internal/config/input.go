package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Accepted range for pay point and benchmark years
const (
	MinYear = 1950
	MaxYear = 2100
)

// InputParser handles parsing of dataset files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadDataset loads a dataset from a YAML file. Pay points without an id
// are given one, and the embedded CPI table is used when the file has no
// inflation section.
func (ip *InputParser) LoadDataset(filename string) (*domain.Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseDataset(data)
}

// ParseDataset decodes and validates a YAML (or JSON) dataset document
func (ip *InputParser) ParseDataset(data []byte) (*domain.Dataset, error) {
	var dataset domain.Dataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(dataset.Inflation) == 0 {
		inflation, err := DefaultInflation()
		if err != nil {
			return nil, err
		}
		dataset.Inflation = inflation
	}

	if err := ip.ValidateDataset(&dataset); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}
	AssignPayPointIDs(dataset.PayPoints)

	return &dataset, nil
}

// ValidateDataset validates every section of a loaded dataset
func (ip *InputParser) ValidateDataset(dataset *domain.Dataset) error {
	if err := ValidatePayPoints(dataset.PayPoints); err != nil {
		return fmt.Errorf("pay points: %w", err)
	}
	if err := ValidateInflation(dataset.Inflation); err != nil {
		return fmt.Errorf("inflation: %w", err)
	}
	if err := ValidateReference(dataset.Reference); err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	return nil
}

// ValidatePayPoints checks the assumptions the salary engine makes about its
// input: at least one point, one point per year, positive pay and a known reason.
func ValidatePayPoints(points []domain.PayPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("no pay points provided")
	}

	seen := make(map[int]bool, len(points))
	for i, p := range points {
		if err := validateYear(p.Year); err != nil {
			return fmt.Errorf("pay point %d: %w", i, err)
		}
		if seen[p.Year] {
			return fmt.Errorf("pay point %d: duplicate year %d", i, p.Year)
		}
		seen[p.Year] = true

		if p.Pay.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("pay point %d (%d): pay must be positive", i, p.Year)
		}
		if !p.Reason.Valid() {
			return fmt.Errorf("pay point %d (%d): reason must be 'adjustment', 'promotion', or 'newJob', got %q", i, p.Year, p.Reason)
		}
	}

	return nil
}

// ValidateInflation rejects duplicate years and rates of -100% or lower
func ValidateInflation(rates []domain.InflationDataPoint) error {
	seen := make(map[int]bool, len(rates))
	for _, r := range rates {
		if err := validateYear(r.Year); err != nil {
			return err
		}
		if seen[r.Year] {
			return fmt.Errorf("duplicate year %d", r.Year)
		}
		seen[r.Year] = true

		if r.Inflation.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return fmt.Errorf("inflation for %d must be greater than -100%%", r.Year)
		}
	}
	return nil
}

// ValidateReference checks benchmark points. A missing value is allowed.
func ValidateReference(points []domain.ReferencePoint) error {
	seen := make(map[int]bool, len(points))
	for _, r := range points {
		if err := validateYear(r.Year); err != nil {
			return err
		}
		if seen[r.Year] {
			return fmt.Errorf("duplicate year %d", r.Year)
		}
		seen[r.Year] = true

		if r.Type != domain.ReferenceOfficial && r.Type != domain.ReferenceEstimated {
			return fmt.Errorf("reference %d: type must be 'official' or 'estimated'", r.Year)
		}
		if r.Value != nil && r.Value.IsNegative() {
			return fmt.Errorf("reference %d: value cannot be negative", r.Year)
		}
	}
	return nil
}

func validateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d must be between %d and %d", year, MinYear, MaxYear)
	}
	return nil
}

// AssignPayPointIDs gives every pay point without an id a random UUID
func AssignPayPointIDs(points []domain.PayPoint) {
	for i := range points {
		if points[i].ID == "" {
			points[i].ID = uuid.NewString()
		}
	}
}

// CreateExampleDataset creates an example dataset for new users
func (ip *InputParser) CreateExampleDataset() *domain.Dataset {
	official := decimal.NewFromInt(595000)
	estimated := decimal.NewFromInt(628000)

	return &domain.Dataset{
		PayPoints: []domain.PayPoint{
			{Year: 2019, Pay: decimal.NewFromInt(520000), Reason: domain.ReasonNewJob, Note: "First permanent position"},
			{Year: 2021, Pay: decimal.NewFromInt(565000), Reason: domain.ReasonAdjustment},
			{Year: 2023, Pay: decimal.NewFromInt(640000), Reason: domain.ReasonPromotion, Note: "Senior engineer"},
			{Year: 2024, Pay: decimal.NewFromInt(672000), Reason: domain.ReasonAdjustment},
		},
		Reference: []domain.ReferencePoint{
			{Year: 2023, Value: &official, Type: domain.ReferenceOfficial, Confidence: "high"},
			{Year: 2024, Value: &estimated, Type: domain.ReferenceEstimated, Confidence: "medium"},
		},
	}
}

// WriteDataset writes a dataset as YAML
func (ip *InputParser) WriteDataset(filename string, dataset *domain.Dataset) error {
	data, err := yaml.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
