package models

import "time"

// Transaction codes that qualify a filing for extraction
const (
	TransactionPurchase = "P"
	TransactionSale     = "S"
)

// NormalizedTrade is the flat record produced by the trade extractor.
// One filing yields at most one record per qualifying transaction code.
// The three return fields start nil and are filled in later by the
// returns worker, never by this service.
type NormalizedTrade struct {
	FilingID                    string   `json:"filing_id"`
	Ticker                      string   `json:"ticker"`
	CIK                         string   `json:"cik"`
	CEOName                     string   `json:"ceo_name"`
	CompanyName                 string   `json:"company_name"`
	Sector                      string   `json:"sector"`
	MarketCap                   string   `json:"market_cap"`
	AccessionNo                 string   `json:"accession_no"`
	PeriodOfReport              string   `json:"period_of_report"`
	TransactionType             string   `json:"transaction_type"` // "P" or "S"
	TotalShares                 float64  `json:"total_shares"`
	SharePrice                  float64  `json:"share_price"`
	DisclosedDate               string   `json:"disclosed_date"`
	TotalAmountSpent            float64  `json:"total_amount_spent"`
	TotalSharesAfterTransaction float64  `json:"total_shares_after_transaction"`
	ChangeInSharesPercentage    float64  `json:"change_in_shares_percentage"`
	Link                        string   `json:"link,omitempty"`
	OneWeekReturn               *float64 `json:"one_week_return"`
	OneMonthReturn              *float64 `json:"one_month_return"`
	SixMonthsReturn             *float64 `json:"six_months_return"`
}

// TradeEvent is the envelope published to Kafka for downstream services
type TradeEvent struct {
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	SchemaVersion string            `json:"schema_version"`
	Timestamp     time.Time         `json:"timestamp"`
	Data          []NormalizedTrade `json:"data"`
}
