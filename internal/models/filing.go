package models

// FilingEvent is a single entry from the real-time filing stream.
// Stream messages are JSON arrays of these. Field names follow the
// provider's wire format.
type FilingEvent struct {
	FormType    string `json:"formType"`
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	AccessionNo string `json:"accessionNo"`
	Link        string `json:"linkToFilingDetails"`
}

// FilingDocument is the full Form 4 document returned by the insider
// trading query API for an accession number.
type FilingDocument struct {
	ID                 string             `json:"id"`
	AccessionNo        string             `json:"accessionNo"`
	FiledAt            string             `json:"filedAt"`
	PeriodOfReport     string             `json:"periodOfReport"`
	DocumentType       string             `json:"documentType,omitempty"`
	Issuer             Issuer             `json:"issuer"`
	ReportingOwner     ReportingOwner     `json:"reportingOwner"`
	NonDerivativeTable NonDerivativeTable `json:"nonDerivativeTable"`
	Link               string             `json:"link,omitempty"`
}

// Issuer identifies the company whose stock was traded.
type Issuer struct {
	CIK           string `json:"cik"`
	Name          string `json:"name"`
	TradingSymbol string `json:"tradingSymbol"`
}

// ReportingOwner is the insider who filed the form.
type ReportingOwner struct {
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
}

// Relationship describes the reporting owner's role at the issuer.
type Relationship struct {
	IsDirector        bool   `json:"isDirector"`
	IsOfficer         bool   `json:"isOfficer"`
	IsTenPercentOwner bool   `json:"isTenPercentOwner"`
	OfficerTitle      string `json:"officerTitle"`
}

// NonDerivativeTable holds the filing's reported transactions plus any
// standalone holding rows disclosed without a matching transaction.
type NonDerivativeTable struct {
	Transactions []Transaction `json:"transactions"`
	Holdings     []Holding     `json:"holdings,omitempty"`
}

// Transaction is one row of the non-derivative transaction table.
type Transaction struct {
	Coding                 TransactionCoding      `json:"coding"`
	Amounts                TransactionAmounts     `json:"amounts"`
	OwnershipNature        OwnershipNature        `json:"ownershipNature"`
	PostTransactionAmounts PostTransactionAmounts `json:"postTransactionAmounts"`
}

// TransactionCoding carries the single-letter transaction code
// ("P" open-market purchase, "S" open-market sale, and others).
type TransactionCoding struct {
	Code     string `json:"code"`
	FormType string `json:"formType,omitempty"`
}

// TransactionAmounts reports the share count and price of a transaction.
// PricePerShare is absent for some codes (grants, gifts) and decodes to 0.
type TransactionAmounts struct {
	Shares               float64 `json:"shares"`
	PricePerShare        float64 `json:"pricePerShare,omitempty"`
	AcquiredDisposedCode string  `json:"acquiredDisposedCode,omitempty"`
}

// OwnershipNature distinguishes direct holdings ("D") from indirect ones
// ("I", e.g. held by a trust or spouse).
type OwnershipNature struct {
	DirectOrIndirectOwnership string `json:"directOrIndirectOwnership"`
	NatureOfOwnership         string `json:"natureOfOwnership,omitempty"`
}

// PostTransactionAmounts reports the owner's position after the transaction.
type PostTransactionAmounts struct {
	SharesOwnedFollowingTransaction float64 `json:"sharesOwnedFollowingTransaction"`
}

// Holding is a standalone post-transaction snapshot from the holdings
// table, not tied to a transaction row.
type Holding struct {
	OwnershipNature        *OwnershipNature        `json:"ownershipNature,omitempty"`
	PostTransactionAmounts *PostTransactionAmounts `json:"postTransactionAmounts,omitempty"`
}
