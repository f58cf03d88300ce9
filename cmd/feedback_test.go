package cmd

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/hotjar/filter"
	"github.com/s0up4200/hotjar/hotjar"
)

type feedbackCall struct {
	SiteID   int64
	WidgetID int64
	Filter   string
	Limit    int
}

// mockAPI serves canned feedback per widget
type mockAPI struct {
	hotjar.API

	mu       sync.Mutex
	calls    []feedbackCall
	records  map[int64][]hotjar.FeedbackRecord
	failures map[int64]error
}

func (m *mockAPI) GetFeedbacks(ctx context.Context, siteID, widgetID int64, filter string, limit int) ([]hotjar.FeedbackRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, feedbackCall{siteID, widgetID, filter, limit})
	m.mu.Unlock()

	if err := m.failures[widgetID]; err != nil {
		return nil, err
	}
	return m.records[widgetID], nil
}

func TestMain(m *testing.M) {
	logger = zerolog.Nop()
	m.Run()
}

func TestExportFeedback(t *testing.T) {
	api := &mockAPI{
		records: map[int64][]hotjar.FeedbackRecord{
			10: {
				{"id": float64(1), "content": "Found a bug in checkout"},
				{"id": float64(2), "content": "Love it"},
			},
			20: {
				{"id": float64(3), "content": "BUG: search is slow"},
			},
			30: {},
		},
	}

	t.Run("keeps widget order", func(t *testing.T) {
		results, err := exportFeedback(context.Background(), api, 7, []int64{30, 10, 20}, exportOptions{
			Filter:      "created__ge__2024-01-01",
			Limit:       250,
			Concurrency: 3,
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, int64(30), results[0].WidgetID)
		assert.Equal(t, int64(10), results[1].WidgetID)
		assert.Equal(t, int64(20), results[2].WidgetID)
		assert.Equal(t, 2, results[1].Fetched)
		assert.Len(t, results[1].Records, 2)
		assert.Empty(t, results[0].Records)

		for _, call := range api.calls {
			assert.Equal(t, int64(7), call.SiteID)
			assert.Equal(t, "created__ge__2024-01-01", call.Filter)
			assert.Equal(t, 250, call.Limit)
		}
	})

	t.Run("applies local filter", func(t *testing.T) {
		local, err := filter.NewManager().Compile(`icontains(content, "bug")`)
		require.NoError(t, err)

		results, err := exportFeedback(context.Background(), api, 7, []int64{10, 20}, exportOptions{
			Limit:       100,
			Concurrency: 1,
			Local:       local,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, 2, results[0].Fetched)
		require.Len(t, results[0].Records, 1)
		assert.Equal(t, float64(1), results[0].Records[0]["id"])

		assert.Equal(t, 1, results[1].Fetched)
		assert.Len(t, results[1].Records, 1)
	})

	t.Run("zero concurrency still runs", func(t *testing.T) {
		results, err := exportFeedback(context.Background(), api, 7, []int64{10}, exportOptions{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestExportFeedback_Error(t *testing.T) {
	boom := &hotjar.APIError{StatusCode: 502, Method: "GET", Path: "/v1/sites/7/feedback/20/responses"}
	api := &mockAPI{
		records: map[int64][]hotjar.FeedbackRecord{
			10: {{"id": float64(1)}},
		},
		failures: map[int64]error{20: boom},
	}

	results, err := exportFeedback(context.Background(), api, 7, []int64{10, 20}, exportOptions{
		Limit:       100,
		Concurrency: 2,
	})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "widget 20")

	var apiErr *hotjar.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 502, apiErr.StatusCode)
}

func TestResolveServerFilter(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		since    string
		fallback string
		want     string
		wantErr  bool
	}{
		{
			name:     "explicit wins",
			explicit: "created__ge__2020-01-01",
			since:    "2024-01-01",
			fallback: "created__ge__2019-01-21",
			want:     "created__ge__2020-01-01",
		},
		{
			name:     "since builds created filter",
			since:    "2024-03-05",
			fallback: "created__ge__2019-01-21",
			want:     "created__ge__2024-03-05",
		},
		{
			name:     "fallback",
			fallback: "created__ge__2019-01-21",
			want:     "created__ge__2019-01-21",
		},
		{
			name:    "bad since",
			since:   "05/03/2024",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveServerFilter(tt.explicit, tt.since, tt.fallback)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLocalFilter(t *testing.T) {
	m := filter.NewManager()
	require.NoError(t, m.RegisterFilter("negative", `icontains(content, "hate")`))

	t.Run("none", func(t *testing.T) {
		f, err := resolveLocalFilter(m, "", "")
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("where", func(t *testing.T) {
		f, err := resolveLocalFilter(m, `country_code == "DE"`, "")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.True(t, f.Evaluate(hotjar.FeedbackRecord{"country_code": "DE"}))
	})

	t.Run("invalid where", func(t *testing.T) {
		_, err := resolveLocalFilter(m, `country_code ==`, "")
		assert.Error(t, err)
	})

	t.Run("preset", func(t *testing.T) {
		f, err := resolveLocalFilter(m, "", "negative")
		require.NoError(t, err)
		assert.True(t, f.Evaluate(hotjar.FeedbackRecord{"content": "I HATE popups"}))
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := resolveLocalFilter(m, "", "missing")
		assert.ErrorContains(t, err, "missing")
	})
}

func TestParseID(t *testing.T) {
	id, err := parseID("site", "12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)

	for _, bad := range []string{"", "abc", "0", "-4", "1.5"} {
		_, err := parseID("site", bad)
		assert.Error(t, err, bad)
	}
}

func TestCurrentVersion(t *testing.T) {
	v, err := currentVersion("v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v.String())

	_, err = currentVersion("dev")
	assert.Error(t, err)
}
