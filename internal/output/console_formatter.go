package output

import (
	"bytes"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the report as terminal tables.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	for _, w := range report.Warnings {
		fmt.Fprintln(&buf, pterm.Yellow("Warning: "+w))
	}

	if report.Statistics != nil {
		buf.WriteString(pterm.DefaultSection.Sprint("Summary"))
		writeStatistics(&buf, *report.Statistics)
	}

	var table pterm.TableData
	switch {
	case len(report.Rows) > 0:
		table = rowsTable(report.Rows)
	case len(report.Series) > 0:
		table = seriesTable(report.Series)
	}
	if table != nil {
		buf.WriteString(pterm.DefaultSection.Sprint("Salary history"))
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(table).Srender()
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(&buf, rendered)
	}

	if len(report.Insights) > 0 {
		buf.WriteString(pterm.DefaultSection.Sprint("Insights"))
		for _, in := range report.Insights {
			fmt.Fprintln(&buf, " * "+DescribeInsight(in))
		}
	}

	if report.Tax != nil {
		buf.WriteString(pterm.DefaultSection.Sprintf("Tax %d", report.Tax.Year))
		rendered, err := pterm.DefaultTable.WithData(taxTable(*report.Tax)).Srender()
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(&buf, rendered)
	}

	return buf.Bytes(), nil
}

func writeStatistics(buf *bytes.Buffer, s domain.SalaryStatistics) {
	if !s.HasData() {
		fmt.Fprintln(buf, "No salary data")
		return
	}
	fmt.Fprintf(buf, "Starting pay (%d):        %s\n", s.StartingYear, FormatNOK(s.StartingPay.Decimal))
	fmt.Fprintf(buf, "Latest pay (%d):          %s\n", s.LatestYear, FormatNOK(s.LatestPay.Decimal))
	fmt.Fprintf(buf, "Inflation-adjusted pay:   %s\n", FormatNOK(s.InflationAdjustedPay.Decimal))
	if s.GapPercent.Valid {
		fmt.Fprintf(buf, "Gap to inflation:         %s\n", colorBySign(s.GapPercent.Decimal, s.GapPercent.Decimal.StringFixed(1)+"%"))
	}
}

func seriesTable(series []domain.SalaryDataPoint) pterm.TableData {
	data := pterm.TableData{{"Year", "Pay", "Inflation-adjusted", "Inflation", ""}}
	for _, p := range series {
		data = append(data, []string{
			intToString(p.Year),
			FormatNOK(p.ActualPay),
			FormatNOK(p.InflationAdjustedPay),
			p.InflationRate.StringFixed(1) + "%",
			interpolatedMark(p.IsInterpolated),
		})
	}
	return data
}

func rowsTable(rows []domain.SalaryTableRow) pterm.TableData {
	data := pterm.TableData{{"Year", "Salary", "YoY", "Inflation-adjusted", "Purchasing power", "Reference gap", ""}}
	for _, r := range rows {
		yoy := "-"
		if r.YoYAbsoluteChange != nil {
			yoy = FormatSignedNOK(*r.YoYAbsoluteChange) + " (" + FormatPercent(r.YoYPercentChange) + ")"
		}
		ref := "-"
		if r.Reference != nil {
			ref = colorBySign(r.Reference.Gap, FormatSignedNOK(r.Reference.Gap))
		}
		data = append(data, []string{
			intToString(r.Year),
			FormatNOK(r.Salary),
			yoy,
			FormatNOK(r.InflationAdjusted),
			colorBySign(r.PurchasingPowerDelta, FormatSignedNOK(r.PurchasingPowerDelta)),
			ref,
			interpolatedMark(r.IsInterpolated),
		})
	}
	return data
}

func taxTable(b domain.TaxBreakdown) pterm.TableData {
	return pterm.TableData{
		{"Gross income", FormatNOK(b.GrossIncome)},
		{"Standard deduction", FormatNOK(b.StandardDeduction)},
		{"Personal deduction", FormatNOK(b.PersonalDeduction)},
		{"General income tax", FormatNOK(b.GeneralTax)},
		{string(b.RuleType) + " tax", FormatNOK(b.BracketTax)},
		{"Trygdeavgift", FormatNOK(b.TrygdeTax)},
		{"Total tax", FormatNOK(b.TotalTax)},
		{"Net income", FormatNOK(b.NetIncome)},
		{"Effective rate", b.EffectiveTaxRate.Shift(2).StringFixed(1) + "%"},
	}
}

// DescribeInsight renders an insight as one line of text
func DescribeInsight(in domain.SalaryInsight) string {
	switch v := in.(type) {
	case domain.LargestRaiseInsight:
		return fmt.Sprintf("Largest raise in %d: %s (%s), to %s", v.Year, FormatSignedNOK(v.Change), FormatPercent(v.PercentChange), FormatNOK(v.Salary))
	case domain.PurchasingPowerGainInsight:
		return fmt.Sprintf("Furthest ahead of inflation in %d: %s (%s)", v.Year, FormatSignedNOK(v.Delta), FormatPercent(v.Percent))
	case domain.PurchasingPowerLossInsight:
		return fmt.Sprintf("Furthest behind inflation in %d: %s (%s)", v.Year, FormatNOK(v.Delta), FormatPercent(v.Percent))
	case domain.ReferenceWinsInsight:
		return fmt.Sprintf("At or above the reference in %d year(s), best %d: %s", len(v.Years), v.Best.Year, FormatSignedNOK(v.Best.Gap))
	case domain.ReferenceLossesInsight:
		return fmt.Sprintf("Below the reference in %d year(s), worst %d: %s", len(v.Years), v.Worst.Year, FormatNOK(v.Worst.Gap))
	case domain.InflationBeatingStreakInsight:
		if v.Length == 1 {
			return fmt.Sprintf("Beat inflation in %d", v.StartYear)
		}
		return fmt.Sprintf("Beat inflation %d years in a row (%d-%d)", v.Length, v.StartYear, v.EndYear)
	}
	return string(in.Kind())
}

func colorBySign(d decimal.Decimal, text string) string {
	switch {
	case d.IsPositive():
		return pterm.Green(text)
	case d.IsNegative():
		return pterm.Red(text)
	}
	return text
}

func interpolatedMark(interpolated bool) string {
	if interpolated {
		return "interpolated"
	}
	return ""
}
