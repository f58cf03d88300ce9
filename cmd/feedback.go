package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/hotjar/filter"
	"github.com/s0up4200/hotjar/hotjar"
)

var (
	feedbackLimit  int
	serverFilter   string
	sinceDate      string
	whereExpr      string
	preset         string
	sentimentQuery string
)

// widgetFeedback is the export of one widget
type widgetFeedback struct {
	WidgetID int64                   `json:"widget_id" yaml:"widget_id"`
	Fetched  int                     `json:"fetched" yaml:"fetched"`
	Records  []hotjar.FeedbackRecord `json:"records" yaml:"records"`
}

// exportOptions controls a feedback export
type exportOptions struct {
	Filter      string
	Limit       int
	Concurrency int
	// Local narrows fetched records client side; nil keeps everything
	Local filter.Filter
}

// feedbackCmd represents the feedback command
var feedbackCmd = &cobra.Command{
	Use:   "feedback SITE_ID WIDGET_ID...",
	Short: "Export feedback responses of one or more widgets",
	Long: `Export feedback responses of one or more feedback widgets, newest first.

Responses are fetched in pages of 100 after asking Hotjar how many match the
server-side filter. The server-side filter uses Hotjar's syntax, for example
created__ge__2019-01-21. Fetched records can then be narrowed locally with an
expression (--where) or a preset from the config file (--preset):

  hotjar feedback 123 456 --since 2024-01-01 --where 'icontains(content, "bug")'`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: initializeApp,
	RunE:    runFeedback,
}

// sentimentCmd represents the sentiment command
var sentimentCmd = &cobra.Command{
	Use:     "sentiment SITE_ID WIDGET_ID",
	Short:   "Show the sentiment aggregation of a feedback widget",
	Args:    cobra.ExactArgs(2),
	PreRunE: initializeApp,
	RunE:    runSentiment,
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(sentimentCmd)

	feedbackCmd.Flags().IntVarP(&feedbackLimit, "limit", "l", 0, "maximum records per widget (default from config)")
	feedbackCmd.Flags().StringVar(&serverFilter, "filter", "", "server-side filter expression (default from config)")
	feedbackCmd.Flags().StringVar(&sinceDate, "since", "", "only responses created on or after this date (YYYY-MM-DD)")
	feedbackCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "local filter expression applied to fetched records")
	feedbackCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a local filter preset from config")
	feedbackCmd.MarkFlagsMutuallyExclusive("filter", "since")
	feedbackCmd.MarkFlagsMutuallyExclusive("where", "preset")

	sentimentCmd.Flags().StringVar(&sentimentQuery, "filter", "", "server-side filter expression (default from config)")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	siteID, err := parseID("site", args[0])
	if err != nil {
		return err
	}

	widgetIDs := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parseID("widget", arg)
		if err != nil {
			return err
		}
		widgetIDs = append(widgetIDs, id)
	}

	opts := exportOptions{
		Limit:       cfg.Feedback.Limit,
		Concurrency: cfg.Feedback.Concurrency,
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = feedbackLimit
	}

	opts.Filter, err = resolveServerFilter(serverFilter, sinceDate, cfg.Feedback.Filter)
	if err != nil {
		return err
	}

	opts.Local, err = resolveLocalFilter(filters, whereExpr, preset)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("site_id", siteID).
		Ints64("widget_ids", widgetIDs).
		Str("filter", opts.Filter).
		Int("limit", opts.Limit).
		Msg("Exporting feedback")

	results, err := exportFeedback(cmd.Context(), client, siteID, widgetIDs, opts)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), cfg.Output.Format, results)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	siteID, err := parseID("site", args[0])
	if err != nil {
		return err
	}
	widgetID, err := parseID("widget", args[1])
	if err != nil {
		return err
	}

	query := cfg.Feedback.Filter
	if sentimentQuery != "" {
		query = sentimentQuery
	}

	sentiments, err := client.GetSentiments(cmd.Context(), siteID, widgetID, query)
	if err != nil {
		return fmt.Errorf("failed to get sentiments: %w", err)
	}

	return printResult(cmd.OutOrStdout(), cfg.Output.Format, sentiments)
}

// exportFeedback fetches every widget's feedback. Widgets are fetched with
// bounded parallelism; each widget's pages stay sequential inside the client.
func exportFeedback(ctx context.Context, api hotjar.API, siteID int64, widgetIDs []int64, opts exportOptions) ([]widgetFeedback, error) {
	results := make([]widgetFeedback, len(widgetIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, widgetID := range widgetIDs {
		g.Go(func() error {
			records, err := api.GetFeedbacks(ctx, siteID, widgetID, opts.Filter, opts.Limit)
			if err != nil {
				return fmt.Errorf("failed to get feedback of widget %d: %w", widgetID, err)
			}

			fetched := len(records)
			if opts.Local != nil {
				records, err = filter.Apply(ctx, opts.Local, records)
				if err != nil {
					return err
				}
			}

			logger.Debug().
				Int64("widget_id", widgetID).
				Int("fetched", fetched).
				Int("matched", len(records)).
				Msg("Exported widget feedback")

			results[i] = widgetFeedback{
				WidgetID: widgetID,
				Fetched:  fetched,
				Records:  records,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resolveServerFilter picks the server-side filter.
// Priority: --filter > --since > config default
func resolveServerFilter(explicit, since, fallback string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if since != "" {
		t, err := time.Parse(time.DateOnly, since)
		if err != nil {
			return "", fmt.Errorf("invalid --since date %q: expected YYYY-MM-DD", since)
		}
		return hotjar.CreatedSince(t), nil
	}

	return fallback, nil
}

// resolveLocalFilter picks the local filter, or nil when none is requested
func resolveLocalFilter(m *filter.Manager, where, presetName string) (filter.Filter, error) {
	if where != "" {
		f, err := m.Compile(where)
		if err != nil {
			return nil, fmt.Errorf("invalid --where expression: %w", err)
		}
		return f, nil
	}

	if presetName != "" {
		f, ok := m.GetFilter(presetName)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", presetName)
		}
		return f, nil
	}

	return nil, nil
}
