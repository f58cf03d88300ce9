package filter

import (
	"context"

	"github.com/s0up4200/hotjar/hotjar"
)

// cancelCheckInterval is how many records are evaluated between context checks
const cancelCheckInterval = 256

// Apply returns the records matching f, preserving their order.
func Apply(ctx context.Context, f Filter, records []hotjar.FeedbackRecord) ([]hotjar.FeedbackRecord, error) {
	matches := make([]hotjar.FeedbackRecord, 0, len(records))

	for i, record := range records {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if f.Evaluate(record) {
			matches = append(matches, record)
		}
	}

	return matches, nil
}

// Count returns how many records match f
func Count(f Filter, records []hotjar.FeedbackRecord) int {
	var n int
	for _, record := range records {
		if f.Evaluate(record) {
			n++
		}
	}
	return n
}
