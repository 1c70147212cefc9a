package service

import "github.com/trogers1052/insider-feed/internal/models"

// candidateForms are the form types that report changes in beneficial
// ownership. Amended filings ("4/A") are treated like originals.
var candidateForms = map[string]bool{
	"4":   true,
	"4/A": true,
}

// IsCandidate reports whether a stream event warrants a detail fetch.
// Malformed events are simply not candidates.
func IsCandidate(event models.FilingEvent) bool {
	return candidateForms[event.FormType] && event.AccessionNo != ""
}
