package service

import (
	"fmt"
	"strings"

	"github.com/trogers1052/insider-feed/internal/models"
)

// OfficerFilter decides whether a fetched filing was made by a
// CEO-equivalent officer and contains an open-market purchase or sale.
type OfficerFilter struct {
	titles map[string]bool
}

// NewOfficerFilter creates a filter accepting the given set of exact
// officer titles in addition to any title containing "CEO".
func NewOfficerFilter(titles []string) *OfficerFilter {
	set := make(map[string]bool, len(titles))
	for _, title := range titles {
		set[title] = true
	}
	return &OfficerFilter{titles: set}
}

// Accept returns whether the filing qualifies. On rejection the second
// return value carries the reason, for routine logging; rejections are
// filtering, not errors.
func (f *OfficerFilter) Accept(doc *models.FilingDocument) (bool, string) {
	if !doc.ReportingOwner.Relationship.IsOfficer {
		return false, "not an officer"
	}

	title := doc.ReportingOwner.Relationship.OfficerTitle
	if !strings.Contains(title, "CEO") && !f.titles[title] {
		return false, fmt.Sprintf("officer title %q is not CEO-equivalent", title)
	}

	codings := collectCodings(doc.NonDerivativeTable.Transactions)
	if !codings[models.TransactionPurchase] && !codings[models.TransactionSale] {
		return false, fmt.Sprintf("no purchase or sale coding (codes: %s)", codingList(codings))
	}

	return true, ""
}

func collectCodings(transactions []models.Transaction) map[string]bool {
	codes := make(map[string]bool, len(transactions))
	for _, txn := range transactions {
		codes[txn.Coding.Code] = true
	}
	return codes
}

func codingList(codes map[string]bool) string {
	if len(codes) == 0 {
		return "none"
	}
	out := make([]string, 0, len(codes))
	for code := range codes {
		out = append(out, code)
	}
	return strings.Join(out, ",")
}
