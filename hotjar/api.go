package hotjar

import (
	"context"
)

// API defines the interface for hotjar operations
type API interface {
	// GetCurrentUserInfo returns the logged in user's account info
	GetCurrentUserInfo(ctx context.Context) (Body, error)

	// GetSiteFeed returns the activity feed of a site
	GetSiteFeed(ctx context.Context, siteID int64) (Body, error)

	// GetSiteStatistics returns the statistics of a site
	GetSiteStatistics(ctx context.Context, siteID int64) (Body, error)

	// GetResources returns the sites and organizations of a user, 0 for self
	GetResources(ctx context.Context, userID int64) (Body, error)

	// GetFeedbackWidgets lists a site's feedback widgets
	GetFeedbackWidgets(ctx context.Context, siteID int64) (Body, error)

	// GetFeedbacks fetches up to limit responses of a widget in pages of 100
	GetFeedbacks(ctx context.Context, siteID, widgetID int64, filter string, limit int) ([]FeedbackRecord, error)

	// GetSentiments returns the sentiment aggregation of a widget
	GetSentiments(ctx context.Context, siteID, widgetID int64, filter string) (Body, error)
}

var _ API = (*Client)(nil)
