package app

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAmount is the single hard failure of free-text extraction: without a
// currency-like token there is no donation to record.
var ErrNoAmount = fmt.Errorf("could not find donation amount in the text")

var (
	amountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)
	donorPattern  = regexp.MustCompile(`(?i)(?:from|by)\s+([\w\s]+?)(?:\s+(?:for|to|amount|\$|\d)|$)`)
	notesPattern  = regexp.MustCompile(`(?i)(?:for|notes:?)\s+([^$\n]+)`)
)

// ExtractedDonation is the best-effort reading of a free-text sentence.
type ExtractedDonation struct {
	DonorName string
	Amount    float64
	Category  string
	Notes     string
}

// ExtractDonation parses a donation out of unstructured text. Amount comes
// from the first currency-like numeric token and is the only required
// field; category is matched by substring against the known category names
// (default "General"); the donor is taken from a "from NAME"/"by NAME"
// pattern (default "Anonymous"); notes from a trailing "for ..." clause.
// This is a heuristic, not a parser; callers must treat the result as
// best effort.
func ExtractDonation(text string, knownCategories []string) (ExtractedDonation, error) {
	out := ExtractedDonation{DonorName: "Anonymous", Category: "General"}

	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return ExtractedDonation{}, ErrNoAmount
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return ExtractedDonation{}, ErrNoAmount
	}
	out.Amount = amount

	lower := strings.ToLower(text)
	for _, name := range knownCategories {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			out.Category = name
			break
		}
	}

	if m := donorPattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			out.DonorName = name
		}
	}
	if m := notesPattern.FindStringSubmatch(text); m != nil {
		out.Notes = strings.TrimSpace(m[1])
	}
	return out, nil
}

// RecordFromText extracts a donation from free text and records it. On
// extraction failure nothing is written and the returned message explains
// what was missing.
func (s *RecordService) RecordFromText(ctx context.Context, text string) (string, error) {
	extracted, err := ExtractDonation(text, s.Categories(ctx))
	if err != nil {
		return "Could not find donation amount in the text.", err
	}

	_, err = s.AddDonation(ctx, AddDonationInput{
		DonorName: extracted.DonorName,
		Amount:    extracted.Amount,
		Category:  extracted.Category,
		Notes:     extracted.Notes,
	})
	if err != nil {
		return "Failed to record donation. Please try again.", err
	}
	return fmt.Sprintf("Successfully recorded donation of $%.2f from %s in %s category.",
		extracted.Amount, extracted.DonorName, extracted.Category), nil
}
