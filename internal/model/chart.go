package model

// ChartEntry is a row of the default chart of accounts seed. NormalBalance
// overrides the type's default; leave it empty except for contra accounts.
type ChartEntry struct {
	Code          string
	Name          string
	Type          string
	NormalBalance string
	AllowPosting  bool
}

// DefaultChart is the chart of accounts installed on an empty ledger.
// Group accounts carry the rolled-up balances of their descendants; only
// leaf entries (AllowPosting) receive journal lines.
var DefaultChart = []ChartEntry{
	// Activos (1)
	{Code: "1", Name: "ACTIVOS", Type: AccountTypeAsset},
	{Code: "1.1", Name: "Activo Corriente", Type: AccountTypeAsset},
	{Code: "1.1.01", Name: "Efectivo en Caja", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.1.02", Name: "Bancos", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.1.03", Name: "Cuentas por Cobrar Clientes", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.1.04", Name: "ITBIS Pagado", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.1.05", Name: "Inventario", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.2", Name: "Activo Fijo", Type: AccountTypeAsset},
	{Code: "1.2.01", Name: "Mobiliario y Equipos", Type: AccountTypeAsset, AllowPosting: true},
	{Code: "1.2.02", Name: "Equipos de Transporte", Type: AccountTypeAsset, AllowPosting: true},
	// Contra-asset: carries a credit balance against the fixed asset group.
	{Code: "1.2.03", Name: "Depreciación Acumulada", Type: AccountTypeAsset, NormalBalance: NormalBalanceCredit, AllowPosting: true},

	// Pasivos (2)
	{Code: "2", Name: "PASIVOS", Type: AccountTypeLiability},
	{Code: "2.1", Name: "Pasivo Corriente", Type: AccountTypeLiability},
	{Code: "2.1.01", Name: "Cuentas por Pagar Suplidores", Type: AccountTypeLiability, AllowPosting: true},
	{Code: "2.1.02", Name: "ITBIS por Pagar", Type: AccountTypeLiability, AllowPosting: true},
	{Code: "2.1.03", Name: "Retenciones por Pagar", Type: AccountTypeLiability, AllowPosting: true},
	{Code: "2.1.04", Name: "Sueldos por Pagar", Type: AccountTypeLiability, AllowPosting: true},
	{Code: "2.2", Name: "Pasivo a Largo Plazo", Type: AccountTypeLiability},
	{Code: "2.2.01", Name: "Préstamos Bancarios", Type: AccountTypeLiability, AllowPosting: true},

	// Capital (3)
	{Code: "3", Name: "CAPITAL", Type: AccountTypeEquity},
	{Code: "3.1", Name: "Capital Social", Type: AccountTypeEquity, AllowPosting: true},
	{Code: "3.2", Name: "Resultados Acumulados", Type: AccountTypeEquity, AllowPosting: true},

	// Ingresos (4)
	{Code: "4", Name: "INGRESOS", Type: AccountTypeIncome},
	{Code: "4.1", Name: "Ventas", Type: AccountTypeIncome, AllowPosting: true},
	{Code: "4.2", Name: "Otros Ingresos", Type: AccountTypeIncome, AllowPosting: true},

	// Costos (5)
	{Code: "5", Name: "COSTOS", Type: AccountTypeCost},
	{Code: "5.1", Name: "Costo de Ventas", Type: AccountTypeCost, AllowPosting: true},

	// Gastos (6)
	{Code: "6", Name: "GASTOS", Type: AccountTypeExpense},
	{Code: "6.1", Name: "Gastos de Personal", Type: AccountTypeExpense, AllowPosting: true},
	{Code: "6.2", Name: "Gastos Generales", Type: AccountTypeExpense, AllowPosting: true},
	{Code: "6.3", Name: "Gastos Financieros", Type: AccountTypeExpense, AllowPosting: true},
}
