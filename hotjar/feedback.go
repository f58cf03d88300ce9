package hotjar

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// FeedbackPageSize is the number of responses requested per page
	FeedbackPageSize = 100
	// DefaultFeedbackLimit is the record limit used by the CLI when none is given
	DefaultFeedbackLimit = 100
)

// GetFeedbacks returns the feedback responses of a widget matching filter,
// newest first, in pages of FeedbackPageSize. Pages are fetched one after
// another; an error on any page discards everything fetched so far.
//
// The number of pages is ceil(min(limit, server count) / FeedbackPageSize),
// computed up front. Whole pages are returned, so a limit that is not a
// multiple of the page size can yield up to FeedbackPageSize-1 extra records.
// If the server serves fewer rows than it counted the result is shorter and
// no error is reported.
func (c *Client) GetFeedbacks(ctx context.Context, siteID, widgetID int64, filter string, limit int) ([]FeedbackRecord, error) {
	if limit <= 0 {
		return []FeedbackRecord{}, nil
	}

	total, err := c.getFeedbacksCount(ctx, siteID, widgetID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedback responses: %w", err)
	}

	effective := min(limit, total)
	pages := pageCount(effective, FeedbackPageSize)

	c.logger.Debug().
		Int64("site_id", siteID).
		Int64("widget_id", widgetID).
		Int("count", total).
		Int("limit", effective).
		Int("pages", pages).
		Msg("Fetching feedback responses")

	endpoint := fmt.Sprintf(feedbackRespPath, siteID, widgetID)
	result := make([]FeedbackRecord, 0, effective)

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		offset := page * FeedbackPageSize
		params := feedbackPageParams(filter, offset)

		var resp responsesPage
		if err := c.getJSON(ctx, endpoint, params, &resp); err != nil {
			return nil, fmt.Errorf("failed to get feedback page at offset %d: %w", offset, err)
		}
		if resp.Data == nil {
			return nil, fmt.Errorf("%w: page at offset %d has no data", ErrInvalidResponse, offset)
		}

		result = append(result, resp.Data...)

		c.logger.Debug().
			Int("offset", offset).
			Int("count", len(resp.Data)).
			Int("total", len(result)).
			Msg("Retrieved feedback page")
	}

	return result, nil
}

// getFeedbacksCount asks for zero records to learn how many match filter
func (c *Client) getFeedbacksCount(ctx context.Context, siteID, widgetID int64, filter string) (int, error) {
	params := url.Values{}
	params.Set("amount", "0")
	params.Set("count", "true")
	params.Set("filter", filter)

	var resp responsesPage
	if err := c.getJSON(ctx, fmt.Sprintf(feedbackRespPath, siteID, widgetID), params, &resp); err != nil {
		return 0, err
	}
	if resp.Count == nil {
		return 0, fmt.Errorf("%w: missing count", ErrInvalidResponse)
	}
	if *resp.Count < 0 {
		return 0, fmt.Errorf("%w: negative count %d", ErrInvalidResponse, *resp.Count)
	}

	return *resp.Count, nil
}

// feedbackPageParams builds the query for one page of responses
func feedbackPageParams(filter string, offset int) url.Values {
	params := url.Values{}
	params.Set("fields", strings.Join(FeedbackFields, ","))
	params.Set("sort", "-id")
	params.Set("amount", strconv.Itoa(FeedbackPageSize))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", "true")
	params.Set("filter", filter)
	return params
}

// pageCount is ceil(n / size)
func pageCount(n, size int) int {
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
