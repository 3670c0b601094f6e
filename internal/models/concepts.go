package models

// ConceptSpec names a logical financial metric and the ordered concept-tag
// and unit aliases that may carry it in a structured-facts document. The
// first tag alias yielding any unit data wins; within it, unit aliases are
// tried in order.
type ConceptSpec struct {
	Name  string
	Tags  []string
	Units []string
}

// Concept alias tables. Issuers report the same economic quantity under
// different tags depending on fiscal year and adoption of ASC 606, so
// revenue and EPS carry multiple aliases.
var (
	ConceptRevenue = ConceptSpec{
		Name: "revenue",
		Tags: []string{
			"RevenueFromContractWithCustomerExcludingAssessedTax",
			"Revenues",
			"SalesRevenueNet",
		},
		Units: []string{"USD"},
	}

	ConceptNetIncome = ConceptSpec{
		Name:  "net_income",
		Tags:  []string{"NetIncomeLoss"},
		Units: []string{"USD"},
	}

	ConceptEPS = ConceptSpec{
		Name: "eps",
		Tags: []string{
			"EarningsPerShareDiluted",
			"EarningsPerShareBasic",
		},
		Units: []string{"USD/shares"},
	}

	ConceptGrossProfit = ConceptSpec{
		Name:  "gross_profit",
		Tags:  []string{"GrossProfit"},
		Units: []string{"USD"},
	}

	ConceptOperatingIncome = ConceptSpec{
		Name:  "operating_income",
		Tags:  []string{"OperatingIncomeLoss"},
		Units: []string{"USD"},
	}

	ConceptTotalAssets = ConceptSpec{
		Name:  "total_assets",
		Tags:  []string{"Assets"},
		Units: []string{"USD"},
	}

	ConceptTotalLiabilities = ConceptSpec{
		Name:  "total_liabilities",
		Tags:  []string{"Liabilities"},
		Units: []string{"USD"},
	}

	ConceptShareholdersEquity = ConceptSpec{
		Name:  "shareholders_equity",
		Tags:  []string{"StockholdersEquity"},
		Units: []string{"USD"},
	}

	ConceptDividendsPerShare = ConceptSpec{
		Name:  "dividends_per_share",
		Tags:  []string{"CommonStockDividendsPerShareDeclared"},
		Units: []string{"USD/shares"},
	}

	ConceptOperatingCashFlow = ConceptSpec{
		Name:  "operating_cash_flow",
		Tags:  []string{"NetCashProvidedByUsedInOperatingActivities"},
		Units: []string{"USD"},
	}
)

// SeriesConcepts is the bundle served by the series endpoint,
// income-statement metrics first, then balance sheet, then cash flow.
var SeriesConcepts = []ConceptSpec{
	ConceptRevenue,
	ConceptGrossProfit,
	ConceptOperatingIncome,
	ConceptNetIncome,
	ConceptEPS,
	ConceptTotalAssets,
	ConceptTotalLiabilities,
	ConceptShareholdersEquity,
	ConceptOperatingCashFlow,
}
