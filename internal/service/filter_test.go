package service

import (
	"strings"
	"testing"

	"github.com/trogers1052/insider-feed/internal/models"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		name  string
		event models.FilingEvent
		want  bool
	}{
		{"form 4", models.FilingEvent{FormType: "4", AccessionNo: "0001-24-000001"}, true},
		{"amended form 4", models.FilingEvent{FormType: "4/A", AccessionNo: "0001-24-000001"}, true},
		{"other form type", models.FilingEvent{FormType: "8-K", AccessionNo: "0001-24-000001"}, false},
		{"form 5", models.FilingEvent{FormType: "5", AccessionNo: "0001-24-000001"}, false},
		{"missing accession number", models.FilingEvent{FormType: "4"}, false},
		{"empty event", models.FilingEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCandidate(tt.event); got != tt.want {
				t.Errorf("IsCandidate(%+v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func testFilter() *OfficerFilter {
	return NewOfficerFilter([]string{"Chief Executive Officer", "President and Chief Executive Officer"})
}

func filterDoc(isOfficer bool, title string, codes ...string) *models.FilingDocument {
	var transactions []models.Transaction
	for _, code := range codes {
		transactions = append(transactions, models.Transaction{
			Coding: models.TransactionCoding{Code: code},
		})
	}
	return &models.FilingDocument{
		ReportingOwner: models.ReportingOwner{
			Relationship: models.Relationship{IsOfficer: isOfficer, OfficerTitle: title},
		},
		NonDerivativeTable: models.NonDerivativeTable{Transactions: transactions},
	}
}

func TestOfficerFilterRejectsNonOfficers(t *testing.T) {
	ok, reason := testFilter().Accept(filterDoc(false, "CEO", "P"))
	if ok {
		t.Fatal("non-officer filing should be rejected")
	}
	if reason != "not an officer" {
		t.Errorf("unexpected reason %q", reason)
	}
}

func TestOfficerFilterAcceptsCEOSubstring(t *testing.T) {
	// "CEO" anywhere in the title qualifies even when the exact title is
	// not in the configured set.
	if ok, reason := testFilter().Accept(filterDoc(true, "CEO & Chairman of the Board", "P")); !ok {
		t.Fatalf("CEO substring title should be accepted, got %q", reason)
	}
}

func TestOfficerFilterAcceptsConfiguredTitles(t *testing.T) {
	if ok, reason := testFilter().Accept(filterDoc(true, "Chief Executive Officer", "S")); !ok {
		t.Fatalf("configured title should be accepted, got %q", reason)
	}
}

func TestOfficerFilterRejectsOtherOfficers(t *testing.T) {
	ok, reason := testFilter().Accept(filterDoc(true, "Chief Financial Officer", "P"))
	if ok {
		t.Fatal("CFO filing should be rejected")
	}
	if !strings.Contains(reason, "Chief Financial Officer") {
		t.Errorf("reason should include the title, got %q", reason)
	}
}

func TestOfficerFilterRequiresPurchaseOrSaleCoding(t *testing.T) {
	ok, reason := testFilter().Accept(filterDoc(true, "CEO", "A", "G", "M"))
	if ok {
		t.Fatal("filing without P or S coding should be rejected")
	}
	if !strings.Contains(reason, "no purchase or sale coding") {
		t.Errorf("unexpected reason %q", reason)
	}

	if ok, _ := testFilter().Accept(filterDoc(true, "CEO", "A", "S")); !ok {
		t.Fatal("filing with an S coding among others should be accepted")
	}
}
