package enums

import "fmt"

// QuoteStatus tracks the lifecycle of a sales quote.
type QuoteStatus string

const (
	QuoteStatusDraft                    QuoteStatus = "DraftQuote"
	QuoteStatusFinalizedUnresolved      QuoteStatus = "FinalizedUnresolvedQuote"
	QuoteStatusSanctioned               QuoteStatus = "SanctionedQuote"
	QuoteStatusUnprocessedPurchaseOrder QuoteStatus = "UnprocessedPurchaseOrder"
	QuoteStatusProcessed                QuoteStatus = "Processed"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusDraft,
	QuoteStatusFinalizedUnresolved,
	QuoteStatusSanctioned,
	QuoteStatusUnprocessedPurchaseOrder,
	QuoteStatusProcessed,
}

// String implements fmt.Stringer.
func (q QuoteStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuoteStatus.
func (q QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuoteStatus converts raw input into a QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
