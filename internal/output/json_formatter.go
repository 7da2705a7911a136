package output

import (
	"github.com/goccy/go-json"

	"github.com/paytrend/salary-tracker/internal/domain"
)

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

// jsonReport adds the insight discriminator, which the interface slice
// cannot carry on its own.
type jsonReport struct {
	*Report
	Insights []domain.TaggedInsight `json:"insights,omitempty"`
}

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(jsonReport{Report: report, Insights: domain.TagInsights(report.Insights)}, "", "  ")
}
