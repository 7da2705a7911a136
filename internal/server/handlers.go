package server

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/paytrend/salary-tracker/internal/calculation"
	"github.com/paytrend/salary-tracker/internal/config"
	"github.com/paytrend/salary-tracker/internal/domain"
)

type seriesRequest struct {
	PayPoints []domain.PayPoint           `json:"pay_points"`
	Inflation []domain.InflationDataPoint `json:"inflation"`
	Reference []domain.ReferencePoint     `json:"reference"`
	// NetOfTax compares salaries after tax for their income year
	NetOfTax bool `json:"net_of_tax"`
}

type seriesResponse struct {
	Series     []domain.SalaryDataPoint `json:"series"`
	Statistics domain.SalaryStatistics  `json:"statistics"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

type insightsResponse struct {
	Rows     []domain.SalaryTableRow `json:"rows"`
	Insights []domain.TaggedInsight  `json:"insights"`
	Warnings []string                `json:"warnings,omitempty"`
}

type taxRequest struct {
	Year  int             `json:"year"`
	Gross decimal.Decimal `json:"gross"`
}

type grossRequest struct {
	Year int             `json:"year"`
	Net  decimal.Decimal `json:"net"`
}

type grossResponse struct {
	Year  int             `json:"year"`
	Net   decimal.Decimal `json:"net"`
	Gross decimal.Decimal `json:"gross"`
}

type yearsResponse struct {
	Years []int `json:"years"`
}

// prepare validates the request and fills in default inflation data
func (s *Server) prepare(req *seriesRequest) ([]string, error) {
	if len(req.Inflation) == 0 {
		req.Inflation = s.inflation
	}
	dataset := domain.Dataset{PayPoints: req.PayPoints, Inflation: req.Inflation, Reference: req.Reference}
	if err := config.NewInputParser().ValidateDataset(&dataset); err != nil {
		return nil, err
	}

	first, last, err := dataset.YearSpan()
	if err != nil {
		return nil, err
	}
	var warnings []string
	if missing := calculation.MissingInflationYears(req.Inflation, first, last); len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("no inflation data for %v; treated as 0%%", missing))
	}
	return warnings, nil
}

func (s *Server) handleSeries(ctx *fasthttp.RequestCtx) {
	var req seriesRequest
	if !decode(ctx, &req) {
		return
	}
	warnings, err := s.prepare(&req)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	series := calculation.BuildSalarySeries(req.PayPoints, req.Inflation)
	writeJSON(ctx, fasthttp.StatusOK, seriesResponse{
		Series:     series,
		Statistics: calculation.ComputeStatistics(series),
		Warnings:   warnings,
	})
}

func (s *Server) handleInsights(ctx *fasthttp.RequestCtx) {
	var req seriesRequest
	if !decode(ctx, &req) {
		return
	}
	warnings, err := s.prepare(&req)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	var transform calculation.ValueTransform
	if req.NetOfTax {
		transform = s.calc.NetOfTaxTransform()
	}
	series := calculation.BuildSalarySeries(req.PayPoints, req.Inflation)
	rows, insights, err := calculation.Insights(series, req.Reference, transform)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, insightsResponse{Rows: rows, Insights: domain.TagInsights(insights), Warnings: warnings})
}

func (s *Server) handleTax(ctx *fasthttp.RequestCtx) {
	var req taxRequest
	if !decode(ctx, &req) {
		return
	}
	if req.Gross.IsNegative() {
		writeError(ctx, fasthttp.StatusBadRequest, "gross income cannot be negative")
		return
	}
	breakdown, err := s.calc.CalculateTaxBreakdown(req.Year, req.Gross)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, breakdown)
}

func (s *Server) handleGross(ctx *fasthttp.RequestCtx) {
	var req grossRequest
	if !decode(ctx, &req) {
		return
	}
	gross, err := s.calc.EstimateGrossIncomeFromNet(req.Net, req.Year)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, grossResponse{Year: req.Year, Net: req.Net, Gross: gross})
}
