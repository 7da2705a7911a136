package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paytrend/salary-tracker/internal/calculation"
	"github.com/paytrend/salary-tracker/internal/config"
	"github.com/paytrend/salary-tracker/internal/domain"
	"github.com/paytrend/salary-tracker/internal/output"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the global flags and the collaborators built from them
type app struct {
	rulesFile string
	format    string
	outputDir string
	verbose   bool

	out    io.Writer
	logger calculation.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "paytrend",
		Short: "Track salary growth against inflation and Norwegian income tax",
		Long: `paytrend turns a sparse salary history into a yearly series, compares it
with consumer prices and benchmark salaries, and computes Norwegian income tax.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.out = cmd.OutOrStdout()
			a.logger = NewPtermLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	root.PersistentFlags().StringVar(&a.rulesFile, "rules", "", "tax rules YAML file (defaults to the built-in Norwegian rules)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "console", fmt.Sprintf("output format (%v)", output.AvailableFormatterNames()))
	root.PersistentFlags().StringVarP(&a.outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print debug messages")

	root.AddCommand(
		newSeriesCmd(a),
		newStatsCmd(a),
		newInsightsCmd(a),
		newTaxCmd(a),
		newGrossCmd(a),
		newYearsCmd(a),
		newServeCmd(a),
		newInitCmd(a),
	)
	return root
}

// calculator builds a tax calculator over the configured rules
func (a *app) calculator() (*calculation.TaxCalculator, error) {
	tables, err := config.LoadRuleTables(a.rulesFile)
	if err != nil {
		return nil, err
	}
	rules, err := calculation.NewRuleSet(tables)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rules: %w", err)
	}
	calc := calculation.NewTaxCalculator(rules)
	calc.SetLogger(a.logger)
	return calc, nil
}

// loadDataset reads and validates a dataset and reports inflation gaps
func (a *app) loadDataset(path string) (*domain.Dataset, []string, error) {
	dataset, err := config.NewInputParser().LoadDataset(path)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debugf("loaded %d pay points, %d inflation rates, %d reference points from %s",
		len(dataset.PayPoints), len(dataset.Inflation), len(dataset.Reference), path)

	first, last, err := dataset.YearSpan()
	if err != nil {
		return nil, nil, err
	}
	var warnings []string
	if missing := calculation.MissingInflationYears(dataset.Inflation, first, last); len(missing) > 0 {
		msg := fmt.Sprintf("no inflation data for %v; treated as 0%%", missing)
		a.logger.Warnf("%s", msg)
		warnings = append(warnings, msg)
	}
	return dataset, warnings, nil
}

func (a *app) render(report *output.Report) error {
	if a.outputDir == "" {
		return output.GenerateReport(report, a.format, a.out)
	}
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := output.SaveReport(report, a.format, a.outputDir)
	if err != nil {
		return err
	}
	a.logger.Infof("report written to %s", path)
	return nil
}
