package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paytrend/salary-tracker/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches the requested name
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Report bundles everything a formatter may render. Sections left empty are
// skipped by the formatters.
type Report struct {
	Series     []domain.SalaryDataPoint `json:"series"`
	Statistics *domain.SalaryStatistics `json:"statistics,omitempty"`
	Rows       []domain.SalaryTableRow  `json:"rows,omitempty"`
	Insights   []domain.SalaryInsight   `json:"-"`
	Tax        *domain.TaxBreakdown     `json:"tax,omitempty"`
	// Warnings carries data quality notes such as years without inflation data.
	Warnings []string `json:"warnings,omitempty"`
}

func lookupFormatter(format string) (Formatter, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f, nil
}

// GenerateReport renders the report with the named formatter and writes it to w
func GenerateReport(report *Report, format string, w io.Writer) error {
	f, err := lookupFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SaveReport renders the report into a timestamped file in dir and returns its path
func SaveReport(report *Report, format, dir string) (string, error) {
	f, err := lookupFormatter(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, report, dir, Extension(f))
}
