package model

import (
	"github.com/shopspring/decimal"
)

// TaxProportionalityReport is the ITBIS apportionment for a taxpayer with both
// taxable and exempt sales in a period. Derived, never persisted:
// ItbisDeductible + NonAdmittedProportionality == ItbisSubject exactly.
type TaxProportionalityReport struct {
	Period                     string          `json:"period"` // YYYY-MM
	TotalSales                 decimal.Decimal `json:"total_sales"`
	TaxableSales               decimal.Decimal `json:"taxable_sales"`
	ExemptSales                decimal.Decimal `json:"exempt_sales"`
	ExemptDestinationSales     decimal.Decimal `json:"exempt_destination_sales"`
	ExportSales                decimal.Decimal `json:"export_sales"`
	CreditNotesLess30Days      decimal.Decimal `json:"credit_notes_less_30_days"`
	Coefficient                decimal.Decimal `json:"coefficient"` // in [0, 1]
	ItbisSubject               decimal.Decimal `json:"itbis_subject"`
	ItbisDeductible            decimal.Decimal `json:"itbis_deductible"`
	NonAdmittedProportionality decimal.Decimal `json:"non_admitted_proportionality"`
}
