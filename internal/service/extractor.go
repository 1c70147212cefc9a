package service

import (
	"math"

	"github.com/trogers1052/insider-feed/internal/models"
	"github.com/trogers1052/insider-feed/internal/sector"
)

// Extractor turns an accepted filing document into normalized trade
// records, one per qualifying transaction code.
type Extractor struct {
	sectors *sector.Table
}

// NewExtractor creates an extractor using the given sector lookup.
func NewExtractor(sectors *sector.Table) *Extractor {
	if sectors == nil {
		sectors = sector.Empty()
	}
	return &Extractor{sectors: sectors}
}

// ExtractTrades decomposes the filing's transaction table into one record
// per purchase ("P") or sale ("S") group. All other codes (gifts, grants,
// exercises) are ignored. A filing with no qualifying group yields an
// empty slice; a filing with both a purchase group and a sale group
// yields two independent records.
func (e *Extractor) ExtractTrades(doc *models.FilingDocument) []models.NormalizedTrade {
	transactions := doc.NonDerivativeTable.Transactions
	if len(transactions) == 0 {
		return nil
	}

	// The filing's primary reported price is the first transaction's,
	// regardless of which group is being emitted. This mirrors the
	// upstream report format even when a filing mixes purchase and sale
	// rows at different prices.
	sharePrice := transactions[0].Amounts.PricePerShare

	codes, groups := groupByCoding(transactions)
	info := e.sectors.Lookup(doc.Issuer.TradingSymbol)

	var trades []models.NormalizedTrade
	for _, code := range codes {
		if code != models.TransactionPurchase && code != models.TransactionSale {
			continue
		}

		group := groups[code]
		var totalShares, totalSpent float64
		var direct []models.PostTransactionAmounts
		indirect := make(map[string][]models.PostTransactionAmounts)
		var natures []string

		for _, txn := range group {
			totalShares += txn.Amounts.Shares
			totalSpent += txn.Amounts.Shares * txn.Amounts.PricePerShare

			if txn.OwnershipNature.DirectOrIndirectOwnership == "I" {
				nature := txn.OwnershipNature.NatureOfOwnership
				if _, seen := indirect[nature]; !seen {
					natures = append(natures, nature)
				}
				indirect[nature] = append(indirect[nature], txn.PostTransactionAmounts)
			} else {
				direct = append(direct, txn.PostTransactionAmounts)
			}
		}

		// The post-transaction position is the last reported snapshot per
		// ownership bucket: the last direct row plus, for each distinct
		// indirect nature (trust, spouse, ...), that nature's last row.
		totalAfter := lastShares(direct)
		for _, nature := range natures {
			totalAfter += lastShares(indirect[nature])
		}

		// Holdings-only rows disclose positions without a transaction row.
		for _, holding := range doc.NonDerivativeTable.Holdings {
			if holding.PostTransactionAmounts != nil {
				totalAfter += holding.PostTransactionAmounts.SharesOwnedFollowingTransaction
			}
		}

		var changePct float64
		if totalAfter != 0 {
			changePct = round4(totalShares / totalAfter * 100)
		}

		trades = append(trades, models.NormalizedTrade{
			FilingID:                    doc.ID,
			Ticker:                      doc.Issuer.TradingSymbol,
			CIK:                         doc.Issuer.CIK,
			CEOName:                     doc.ReportingOwner.Name,
			CompanyName:                 doc.Issuer.Name,
			Sector:                      info.Sector,
			MarketCap:                   info.MarketCap,
			AccessionNo:                 doc.AccessionNo,
			PeriodOfReport:              doc.PeriodOfReport,
			TransactionType:             code,
			TotalShares:                 totalShares,
			SharePrice:                  sharePrice,
			DisclosedDate:               doc.FiledAt,
			TotalAmountSpent:            totalSpent,
			TotalSharesAfterTransaction: totalAfter,
			ChangeInSharesPercentage:    changePct,
			Link:                        doc.Link,
		})
	}

	return trades
}

// groupByCoding buckets transactions by their coding code, preserving
// filing order within each group and first-appearance order across groups.
func groupByCoding(transactions []models.Transaction) ([]string, map[string][]models.Transaction) {
	var codes []string
	groups := make(map[string][]models.Transaction)
	for _, txn := range transactions {
		code := txn.Coding.Code
		if _, seen := groups[code]; !seen {
			codes = append(codes, code)
		}
		groups[code] = append(groups[code], txn)
	}
	return codes, groups
}

func lastShares(snapshots []models.PostTransactionAmounts) float64 {
	if len(snapshots) == 0 {
		return 0
	}
	return snapshots[len(snapshots)-1].SharesOwnedFollowingTransaction
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
