package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trogers1052/insider-feed/internal/models"
)

type fakeSender struct {
	name  string
	err   error
	calls int
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(ctx context.Context, trades []models.NormalizedTrade) error {
	f.calls++
	return f.err
}

func purchaseTrade() models.NormalizedTrade {
	return models.NormalizedTrade{
		Ticker:                      "TSLA",
		CEOName:                     "Musk Elon",
		CompanyName:                 "Tesla, Inc.",
		AccessionNo:                 "0001209191-24-000001",
		TransactionType:             models.TransactionPurchase,
		TotalShares:                 13037,
		SharePrice:                  767,
		TotalAmountSpent:            9999379,
		TotalSharesAfterTransaction: 34098597,
		ChangeInSharesPercentage:    0.0382,
		Link:                        "https://www.sec.gov/Archives/edgar/example.htm",
	}
}

func TestNotifyDeliversToAllSenders(t *testing.T) {
	email := &fakeSender{name: "email"}
	sms := &fakeSender{name: "sms"}
	d := NewDispatcher(email, sms)

	if err := d.Notify(context.Background(), []models.NormalizedTrade{purchaseTrade()}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if email.calls != 1 || sms.calls != 1 {
		t.Errorf("expected one call per sender, got email=%d sms=%d", email.calls, sms.calls)
	}
}

func TestNotifyContinuesPastFailedSender(t *testing.T) {
	failing := &fakeSender{name: "email", err: errors.New("smtp unreachable")}
	sms := &fakeSender{name: "sms"}
	d := NewDispatcher(failing, sms)

	err := d.Notify(context.Background(), []models.NormalizedTrade{purchaseTrade()})
	if err == nil {
		t.Fatal("expected an error from the failing sender")
	}
	if !errors.Is(err, failing.err) {
		t.Errorf("expected the sender error to be wrapped, got %v", err)
	}
	if sms.calls != 1 {
		t.Errorf("remaining senders should still run, sms calls = %d", sms.calls)
	}
}

func TestNotifyEmptyBatch(t *testing.T) {
	email := &fakeSender{name: "email"}
	d := NewDispatcher(email)

	if err := d.Notify(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
	if email.calls != 0 {
		t.Errorf("no sends expected for an empty batch, got %d", email.calls)
	}
}

func TestRenderTradesSubject(t *testing.T) {
	purchase := purchaseTrade()
	sale := purchaseTrade()
	sale.TransactionType = models.TransactionSale

	msg := renderTrades([]models.NormalizedTrade{purchase})
	if msg.Subject != "CEO Purchase: TSLA (Musk Elon)" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}

	msg = renderTrades([]models.NormalizedTrade{sale})
	if msg.Subject != "CEO Sale: TSLA (Musk Elon)" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}

	msg = renderTrades([]models.NormalizedTrade{purchase, sale})
	if msg.Subject != "CEO Purchase & Sale: TSLA (Musk Elon)" {
		t.Errorf("unexpected combined subject %q", msg.Subject)
	}
}

func TestRenderTradesBody(t *testing.T) {
	msg := renderTrades([]models.NormalizedTrade{purchaseTrade()})

	if !strings.Contains(msg.HTML, "Shares: 13037 @ $767.00") {
		t.Errorf("HTML missing share line:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "Change in position: 0.0382%") {
		t.Errorf("HTML missing change percentage:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.Text, "Shares: 13037 @ $767.00") {
		t.Errorf("text missing share line:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, "Musk Elon - Tesla, Inc.") {
		t.Errorf("text missing header:\n%s", msg.Text)
	}
}

func TestRenderSMS(t *testing.T) {
	got := renderSMS([]models.NormalizedTrade{purchaseTrade()})
	want := "CEO Purchase TSLA: 13037 shares @ $767.00 (0.0382% of position)"
	if got != want {
		t.Errorf("renderSMS = %q, want %q", got, want)
	}
}
