package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProportionalityStandardCase(t *testing.T) {
	svc := NewTaxReportService()

	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:       "2026-03",
		TotalSales:   "100000",
		TaxableSales: "70000",
		ItbisSubject: "18000",
	})
	require.NoError(t, err)

	requireDecEqual(t, "0.7", report.Coefficient)
	requireDecEqual(t, "12600", report.ItbisDeductible)
	requireDecEqual(t, "5400", report.NonAdmittedProportionality)
}

func TestComputeProportionalityAdjustsDenominator(t *testing.T) {
	svc := NewTaxReportService()

	// 100000 - 10000 exports - 5000 exempt-by-destination - 5000 credit notes = 80000.
	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:                 "2026-03",
		TotalSales:             "100000",
		TaxableSales:           "40000",
		ExemptDestinationSales: "5000",
		ExportSales:            "10000",
		CreditNotesLess30Days:  "5000",
		ItbisSubject:           "10000",
	})
	require.NoError(t, err)

	requireDecEqual(t, "0.5", report.Coefficient)
	requireDecEqual(t, "5000", report.ItbisDeductible)
	requireDecEqual(t, "5000", report.NonAdmittedProportionality)
}

func TestComputeProportionalityCoefficientCappedAtOne(t *testing.T) {
	svc := NewTaxReportService()

	// Adjustments shrink the denominator below the taxable sales.
	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:       "2026-03",
		TotalSales:   "50000",
		TaxableSales: "60000",
		ItbisSubject: "9000",
	})
	require.NoError(t, err)

	requireDecEqual(t, "1", report.Coefficient)
	requireDecEqual(t, "9000", report.ItbisDeductible)
	requireDecEqual(t, "0", report.NonAdmittedProportionality)
}

func TestComputeProportionalityZeroAdjustedSales(t *testing.T) {
	svc := NewTaxReportService()

	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:                "2026-03",
		TotalSales:            "10000",
		TaxableSales:          "5000",
		CreditNotesLess30Days: "12000",
		ItbisSubject:          "4000",
	})
	require.NoError(t, err)

	// Nothing deductible when the adjusted denominator collapses.
	requireDecEqual(t, "0", report.Coefficient)
	requireDecEqual(t, "0", report.ItbisDeductible)
	requireDecEqual(t, "4000", report.NonAdmittedProportionality)
}

func TestComputeProportionalityClampsBadInputs(t *testing.T) {
	svc := NewTaxReportService()

	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:       "2026-03",
		TotalSales:   "not-a-number",
		TaxableSales: "-500",
		ItbisSubject: "1000",
	})
	require.NoError(t, err)

	requireDecEqual(t, "0", report.TotalSales)
	requireDecEqual(t, "0", report.TaxableSales)
	requireDecEqual(t, "0", report.Coefficient)
	requireDecEqual(t, "1000", report.NonAdmittedProportionality)
}

func TestComputeProportionalityDeductibleComplementIsExact(t *testing.T) {
	svc := NewTaxReportService()

	// A repeating coefficient still reconstitutes the subject exactly.
	report, err := svc.ComputeProportionality(TaxProportionalityRequest{
		Period:       "2026-03",
		TotalSales:   "3",
		TaxableSales: "1",
		ItbisSubject: "100",
	})
	require.NoError(t, err)

	requireDecEqual(t, "0.333333", report.Coefficient)
	requireDecEqual(t, "33.33", report.ItbisDeductible)
	requireDecEqual(t, "66.67", report.NonAdmittedProportionality)
	requireDecEqual(t, "100", report.ItbisDeductible.Add(report.NonAdmittedProportionality))
}

func TestComputeProportionalityRejectsMalformedPeriod(t *testing.T) {
	svc := NewTaxReportService()

	for _, period := range []string{"", "2026", "2026-13", "03-2026", "2026/03"} {
		_, err := svc.ComputeProportionality(TaxProportionalityRequest{
			Period:       period,
			TotalSales:   "100",
			TaxableSales: "100",
			ItbisSubject: "18",
		})
		var bad *InvalidPeriodError
		require.ErrorAs(t, err, &bad, "period %q", period)
		assert.Equal(t, period, bad.Period)
	}
}
