package models

// CompanyTicker is one row of the EDGAR company reference dataset.
type CompanyTicker struct {
	CIK      string `json:"cik"` // zero-padded to 10 digits
	Name     string `json:"name"`
	Symbol   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

// CompanyFacts is an issuer's full structured-facts document, organized
// by taxonomy, then concept tag, then unit bucket.
type CompanyFacts struct {
	EntityName string                            `json:"entityName"`
	Facts      map[string]map[string]ConceptFact `json:"facts"`
}

// ConceptFact holds the unit buckets reported under one concept tag.
type ConceptFact struct {
	Label string                       `json:"label"`
	Units map[string][]FactObservation `json:"units"`
}

// FactObservation is one raw reported value. Val is nil when the filing
// carried a null; the date-bearing fields are probed in a fixed order
// during normalization.
type FactObservation struct {
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
	Val   *float64 `json:"val"`
	FY    int      `json:"fy,omitempty"`
	FP    string   `json:"fp,omitempty"`
	Form  string   `json:"form,omitempty"`
	Filed string   `json:"filed,omitempty"`
	Frame string   `json:"frame,omitempty"`
}

// Submissions is the filing-history document for one issuer. EDGAR stores
// the recent filings as parallel arrays indexed by the same position.
type Submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent FilingColumns `json:"recent"`
	} `json:"filings"`
}

// FilingColumns holds the parallel arrays of the recent-filings block.
type FilingColumns struct {
	AccessionNumbers []string `json:"accessionNumber"`
	Forms            []string `json:"form"`
	FilingDates      []string `json:"filingDate"`
	ReportDates      []string `json:"reportDate"`
	PrimaryDocuments []string `json:"primaryDocument"`
}
