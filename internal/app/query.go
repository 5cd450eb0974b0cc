package app

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// QueryKind classifies a free-text question about the donation store.
type QueryKind string

const (
	QueryTotal         QueryKind = "total"
	QueryTotalCategory QueryKind = "total_category"
	QueryRecent        QueryKind = "recent"
	QueryBreakdown     QueryKind = "breakdown"
	QueryUnknown       QueryKind = "unknown"
)

// QueryIntent is the interpreted form of a free-text store question.
type QueryIntent struct {
	Kind     QueryKind
	Category string // Set for QueryTotalCategory
	Limit    int    // Set for QueryRecent
}

var (
	totalPattern  = regexp.MustCompile(`total|sum|all`)
	recentPattern = regexp.MustCompile(`recent|latest|last`)
	groupPattern  = regexp.MustCompile(`category|breakdown|distribution`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// InterpretQuery classifies a free-text question about donations. Best
// effort: anything it cannot place is QueryUnknown.
func InterpretQuery(text string, knownCategories []string) QueryIntent {
	lower := strings.ToLower(text)

	switch {
	case totalPattern.MatchString(lower):
		if strings.Contains(lower, "category") {
			for _, name := range knownCategories {
				if name != "" && strings.Contains(lower, strings.ToLower(name)) {
					return QueryIntent{Kind: QueryTotalCategory, Category: name}
				}
			}
		}
		return QueryIntent{Kind: QueryTotal}

	case recentPattern.MatchString(lower):
		limit := defaultRecentLimit
		if m := numberPattern.FindString(lower); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				limit = n
				if limit > maxRecentLimit {
					limit = maxRecentLimit
				}
			}
		}
		return QueryIntent{Kind: QueryRecent, Limit: limit}

	case groupPattern.MatchString(lower):
		return QueryIntent{Kind: QueryBreakdown}
	}

	return QueryIntent{Kind: QueryUnknown}
}

const replyUnknownQuery = "I could not understand your query. Please try asking about total donations, recent donations, or category breakdown."

// AnswerQuery interprets a free-text question and renders the answer from
// the store. Used by the front end when the language model is unavailable.
func (s *RecordService) AnswerQuery(ctx context.Context, text string) string {
	intent := InterpretQuery(text, s.Categories(ctx))

	switch intent.Kind {
	case QueryTotal:
		return fmt.Sprintf("Total donations: $%.2f", s.TotalDonations(ctx, ""))

	case QueryTotalCategory:
		return fmt.Sprintf("Total donations in %s: $%.2f",
			intent.Category, s.TotalDonations(ctx, intent.Category))

	case QueryRecent:
		donations, err := s.RecentDonations(ctx, intent.Limit)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list recent donations")
			return "Failed to retrieve donations"
		}
		if len(donations) == 0 {
			return replyNoDonations
		}
		var b strings.Builder
		b.WriteString("Recent donations:\n")
		for _, d := range donations {
			fmt.Fprintf(&b, "- %s: $%.2f (%s)\n", d.DonorName, d.Amount, d.Category)
		}
		return b.String()

	case QueryBreakdown:
		breakdown, err := s.CategoryBreakdown(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Failed to compute category breakdown")
			return "Failed to retrieve category breakdown"
		}
		if len(breakdown) == 0 {
			return replyNoDonations
		}
		names := s.Categories(ctx)
		var b strings.Builder
		b.WriteString("Donations by category:\n")
		seen := make(map[string]bool, len(breakdown))
		for _, name := range names {
			if amount, ok := breakdown[name]; ok {
				fmt.Fprintf(&b, "- %s: $%.2f\n", name, amount)
				seen[name] = true
			}
		}
		// Free-text categories that were never registered
		extras := make([]string, 0, len(breakdown))
		for name := range breakdown {
			if !seen[name] {
				extras = append(extras, name)
			}
		}
		sort.Strings(extras)
		for _, name := range extras {
			fmt.Fprintf(&b, "- %s: $%.2f\n", name, breakdown[name])
		}
		return b.String()
	}

	return replyUnknownQuery
}
