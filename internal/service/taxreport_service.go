package service

import (
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type TaxProportionalityRequest struct {
	Period                 string `json:"period" binding:"required"` // YYYY-MM
	TotalSales             string `json:"total_sales" binding:"required"`
	TaxableSales           string `json:"taxable_sales" binding:"required"`
	ExemptSales            string `json:"exempt_sales"`
	ExemptDestinationSales string `json:"exempt_destination_sales"`
	ExportSales            string `json:"export_sales"`
	CreditNotesLess30Days  string `json:"credit_notes_less_30_days"`
	ItbisSubject           string `json:"itbis_subject" binding:"required"`
}

// --- Interface ---

// TaxReportService computes the ITBIS proportionality apportionment: the share
// of input VAT a taxpayer with both taxable and exempt sales may deduct.
// Pure computation over aggregates supplied by the invoicing/purchasing side;
// nothing here reads the ledger.
type TaxReportService interface {
	ComputeProportionality(req TaxProportionalityRequest) (model.TaxProportionalityReport, error)
}

type taxReportService struct{}

func NewTaxReportService() TaxReportService {
	return &taxReportService{}
}

// --- Implementation ---

func (s *taxReportService) ComputeProportionality(req TaxProportionalityRequest) (model.TaxProportionalityReport, error) {
	if _, err := time.Parse("2006-01", req.Period); err != nil {
		return model.TaxProportionalityReport{}, &InvalidPeriodError{Period: req.Period}
	}

	// Numeric inputs never fail the computation: unparseable or negative values
	// are clamped to zero and left for the caller's data-quality review.
	totalSales := parseClamped(req.TotalSales)
	taxableSales := parseClamped(req.TaxableSales)
	exemptSales := parseClamped(req.ExemptSales)
	exemptDestination := parseClamped(req.ExemptDestinationSales)
	exportSales := parseClamped(req.ExportSales)
	creditNotes := parseClamped(req.CreditNotesLess30Days)
	itbisSubject := parseClamped(req.ItbisSubject)

	adjustedTotalSales := totalSales.Sub(exemptDestination).Sub(exportSales).Sub(creditNotes)

	coefficient := decimal.Zero
	if adjustedTotalSales.IsPositive() {
		coefficient = taxableSales.DivRound(adjustedTotalSales, 6)
		if coefficient.GreaterThan(decimal.NewFromInt(1)) {
			coefficient = decimal.NewFromInt(1)
		}
	}

	itbisDeductible := itbisSubject.Mul(coefficient).Round(2)
	// Exact complement: deductible + non-admitted always reconstitute the subject.
	nonAdmitted := itbisSubject.Sub(itbisDeductible)

	return model.TaxProportionalityReport{
		Period:                     req.Period,
		TotalSales:                 totalSales,
		TaxableSales:               taxableSales,
		ExemptSales:                exemptSales,
		ExemptDestinationSales:     exemptDestination,
		ExportSales:                exportSales,
		CreditNotesLess30Days:      creditNotes,
		Coefficient:                coefficient,
		ItbisSubject:               itbisSubject,
		ItbisDeductible:            itbisDeductible,
		NonAdmittedProportionality: nonAdmitted,
	}, nil
}

// parseClamped parses a decimal string, treating empty, malformed or negative
// input as zero.
func parseClamped(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
