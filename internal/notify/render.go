package notify

import (
	"fmt"
	"strings"

	"github.com/trogers1052/insider-feed/internal/models"
)

// RenderedMessage is a notification body in both HTML and plain text.
type RenderedMessage struct {
	Subject string
	HTML    string
	Text    string
}

func transactionVerb(transactionType string) string {
	if transactionType == models.TransactionSale {
		return "Sale"
	}
	return "Purchase"
}

// renderTrades formats one filing's trade batch for email delivery.
func renderTrades(trades []models.NormalizedTrade) RenderedMessage {
	first := trades[0]
	subject := fmt.Sprintf("CEO %s: %s (%s)", transactionVerb(first.TransactionType), first.Ticker, first.CEOName)
	if len(trades) > 1 {
		subject = fmt.Sprintf("CEO Purchase & Sale: %s (%s)", first.Ticker, first.CEOName)
	}

	var html, text strings.Builder

	html.WriteString("<html><body>")
	html.WriteString(fmt.Sprintf("<h2>%s - %s</h2>", first.CEOName, first.CompanyName))
	for _, trade := range trades {
		html.WriteString(fmt.Sprintf("<h3>%s</h3><ul>", transactionVerb(trade.TransactionType)))
		html.WriteString(fmt.Sprintf("<li>Shares: %.0f @ $%.2f</li>", trade.TotalShares, trade.SharePrice))
		html.WriteString(fmt.Sprintf("<li>Total amount: $%.2f</li>", trade.TotalAmountSpent))
		html.WriteString(fmt.Sprintf("<li>Shares after transaction: %.0f</li>", trade.TotalSharesAfterTransaction))
		html.WriteString(fmt.Sprintf("<li>Change in position: %.4f%%</li>", trade.ChangeInSharesPercentage))
		if trade.Sector != "" {
			html.WriteString(fmt.Sprintf("<li>Sector: %s</li>", trade.Sector))
		}
		html.WriteString(fmt.Sprintf("<li>Disclosed: %s</li>", trade.DisclosedDate))
		html.WriteString("</ul>")
		if trade.Link != "" {
			html.WriteString(fmt.Sprintf(`<p><a href="%s">View filing</a></p>`, trade.Link))
		}
	}
	html.WriteString("</body></html>")

	text.WriteString(fmt.Sprintf("%s - %s\n", first.CEOName, first.CompanyName))
	for _, trade := range trades {
		text.WriteString(fmt.Sprintf("\n%s\n", transactionVerb(trade.TransactionType)))
		text.WriteString(fmt.Sprintf("  Shares: %.0f @ $%.2f\n", trade.TotalShares, trade.SharePrice))
		text.WriteString(fmt.Sprintf("  Total amount: $%.2f\n", trade.TotalAmountSpent))
		text.WriteString(fmt.Sprintf("  Shares after transaction: %.0f\n", trade.TotalSharesAfterTransaction))
		text.WriteString(fmt.Sprintf("  Change in position: %.4f%%\n", trade.ChangeInSharesPercentage))
		if trade.Link != "" {
			text.WriteString(fmt.Sprintf("  Filing: %s\n", trade.Link))
		}
	}

	return RenderedMessage{Subject: subject, HTML: html.String(), Text: text.String()}
}

// renderSMS formats the batch as a short single message.
func renderSMS(trades []models.NormalizedTrade) string {
	var sb strings.Builder
	for i, trade := range trades {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("CEO %s %s: %.0f shares @ $%.2f (%.4f%% of position)",
			transactionVerb(trade.TransactionType), trade.Ticker,
			trade.TotalShares, trade.SharePrice, trade.ChangeInSharesPercentage))
	}
	return sb.String()
}
