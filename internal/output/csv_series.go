package output

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/paytrend/salary-tracker/internal/domain"
)

// CSVSeriesFormatter exports one row per year. It uses the comparison rows
// when present and falls back to the raw series.
type CSVSeriesFormatter struct{}

func (c CSVSeriesFormatter) Name() string { return "csv" }

func (c CSVSeriesFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if len(report.Rows) == 0 {
		if err := writeSeriesCSV(w, report.Series); err != nil {
			return nil, err
		}
	} else if err := writeRowsCSV(w, report.Rows); err != nil {
		return nil, err
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeSeriesCSV(w *csv.Writer, series []domain.SalaryDataPoint) error {
	if err := w.Write([]string{"Year", "ActualPay", "InflationAdjustedPay", "InflationRate", "IsInterpolated"}); err != nil {
		return err
	}
	for _, p := range series {
		row := []string{
			intToString(p.Year),
			p.ActualPay.StringFixed(0),
			p.InflationAdjustedPay.StringFixed(0),
			p.InflationRate.String(),
			boolToString(p.IsInterpolated),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeRowsCSV(w *csv.Writer, rows []domain.SalaryTableRow) error {
	header := []string{"Year", "Salary", "InflationAdjusted", "IsInterpolated", "YoYChange", "YoYPercent", "CumulativeChange", "CumulativePercent", "PurchasingPowerDelta", "PurchasingPowerPercent", "ReferenceValue", "ReferenceGap", "ReferenceGapPercent", "ReferenceType"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			intToString(r.Year),
			r.Salary.StringFixed(0),
			r.InflationAdjusted.StringFixed(0),
			boolToString(r.IsInterpolated),
			optionalFixed(r.YoYAbsoluteChange, 0),
			optionalFixed(r.YoYPercentChange, 2),
			r.CumulativeChange.StringFixed(0),
			optionalFixed(r.CumulativePercent, 2),
			r.PurchasingPowerDelta.StringFixed(0),
			optionalFixed(r.PurchasingPowerPercent, 2),
			"", "", "", "",
		}
		if ref := r.Reference; ref != nil {
			record[10] = ref.Value.StringFixed(0)
			record[11] = ref.Gap.StringFixed(0)
			record[12] = optionalFixed(ref.GapPercent, 2)
			record[13] = string(ref.Type)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// CSVInsightsFormatter exports one line per insight: kind, year or range, amount, percent.
type CSVInsightsFormatter struct{}

func (c CSVInsightsFormatter) Name() string { return "insights-csv" }

func (c CSVInsightsFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Kind", "Years", "Amount", "Percent"}); err != nil {
		return nil, err
	}
	for _, in := range report.Insights {
		var years, amount, percent string
		switch v := in.(type) {
		case domain.LargestRaiseInsight:
			years, amount, percent = intToString(v.Year), v.Change.StringFixed(0), optionalFixed(v.PercentChange, 2)
		case domain.PurchasingPowerGainInsight:
			years, amount, percent = intToString(v.Year), v.Delta.StringFixed(0), optionalFixed(v.Percent, 2)
		case domain.PurchasingPowerLossInsight:
			years, amount, percent = intToString(v.Year), v.Delta.StringFixed(0), optionalFixed(v.Percent, 2)
		case domain.ReferenceWinsInsight:
			years, amount, percent = joinYears(v.Years), v.Best.Gap.StringFixed(0), optionalFixed(v.Best.GapPercent, 2)
		case domain.ReferenceLossesInsight:
			years, amount, percent = joinYears(v.Years), v.Worst.Gap.StringFixed(0), optionalFixed(v.Worst.GapPercent, 2)
		case domain.InflationBeatingStreakInsight:
			years, amount = intToString(v.StartYear)+"-"+intToString(v.EndYear), intToString(v.Length)
		}
		if err := w.Write([]string{string(in.Kind()), years, amount, percent}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = intToString(y)
	}
	return strings.Join(parts, " ")
}
