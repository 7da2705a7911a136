package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/paytrend/salary-tracker/internal/calculation"
	"github.com/paytrend/salary-tracker/internal/config"
	"github.com/paytrend/salary-tracker/internal/output"
	"github.com/paytrend/salary-tracker/internal/server"
)

func newSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "series [dataset.yaml]",
		Short: "Expand pay points into a yearly series with an inflation baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, warnings, err := a.loadDataset(args[0])
			if err != nil {
				return err
			}
			series := calculation.BuildSalarySeries(dataset.PayPoints, dataset.Inflation)
			stats := calculation.ComputeStatistics(series)
			return a.render(&output.Report{Series: series, Statistics: &stats, Warnings: warnings})
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [dataset.yaml]",
		Short: "Show starting pay, latest pay and the gap to inflation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, warnings, err := a.loadDataset(args[0])
			if err != nil {
				return err
			}
			stats := calculation.ComputeStatistics(calculation.BuildSalarySeries(dataset.PayPoints, dataset.Inflation))
			return a.render(&output.Report{Statistics: &stats, Warnings: warnings})
		},
	}
}

func newInsightsCmd(a *app) *cobra.Command {
	var netOfTax bool

	cmd := &cobra.Command{
		Use:   "insights [dataset.yaml]",
		Short: "Compare every year against inflation and the reference salaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, warnings, err := a.loadDataset(args[0])
			if err != nil {
				return err
			}

			var transform calculation.ValueTransform
			if netOfTax {
				calc, err := a.calculator()
				if err != nil {
					return err
				}
				transform = calc.NetOfTaxTransform()
			}

			series := calculation.BuildSalarySeries(dataset.PayPoints, dataset.Inflation)
			rows, insights, err := calculation.Insights(series, dataset.Reference, transform)
			if err != nil {
				return err
			}
			return a.render(&output.Report{Rows: rows, Insights: insights, Warnings: warnings})
		},
	}
	cmd.Flags().BoolVar(&netOfTax, "net-of-tax", false, "compare amounts after Norwegian income tax")
	return cmd
}

func newTaxCmd(a *app) *cobra.Command {
	var year int
	var gross string

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Break down the income tax for a gross salary",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("gross", gross)
			if err != nil {
				return err
			}
			calc, err := a.calculator()
			if err != nil {
				return err
			}
			breakdown, err := calc.CalculateTaxBreakdown(year, amount)
			if err != nil {
				return err
			}
			return a.render(&output.Report{Tax: &breakdown})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "income year")
	cmd.Flags().StringVar(&gross, "gross", "", "gross annual income in NOK")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("gross")
	return cmd
}

func newGrossCmd(a *app) *cobra.Command {
	var year int
	var net string

	cmd := &cobra.Command{
		Use:   "gross",
		Short: "Estimate the gross salary needed for a net income",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseAmount("net", net)
			if err != nil {
				return err
			}
			calc, err := a.calculator()
			if err != nil {
				return err
			}
			gross, err := calc.EstimateGrossIncomeFromNet(target, year)
			if err != nil {
				return err
			}
			a.logger.Infof("%s net in %d requires about %s gross", output.FormatNOK(target), year, output.FormatNOK(gross))

			breakdown, err := calc.CalculateTaxBreakdown(year, gross)
			if err != nil {
				return err
			}
			return a.render(&output.Report{Tax: &breakdown})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "income year")
	cmd.Flags().StringVar(&net, "net", "", "desired net annual income in NOK")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("net")
	return cmd
}

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the income years with tax rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := a.calculator()
			if err != nil {
				return err
			}
			for _, y := range calc.SupportedYears() {
				fmt.Fprintln(a.out, y)
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := a.calculator()
			if err != nil {
				return err
			}
			inflation, err := config.DefaultInflation()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(calc, inflation, a.logger).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dataset.yaml]",
		Short: "Write an example dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			parser := config.NewInputParser()
			if err := parser.WriteDataset(args[0], parser.CreateExampleDataset()); err != nil {
				return err
			}
			a.logger.Infof("wrote example dataset to %s", args[0])
			return nil
		},
	}
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s cannot be negative", name)
	}
	return amount, nil
}
