package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/hotjar/hotjar"
)

func sampleRecords() []hotjar.FeedbackRecord {
	now := time.Now()
	return []hotjar.FeedbackRecord{
		{
			"id":                 3.0,
			"content":            "The checkout button is BROKEN",
			"country_code":       "DE",
			"device":             "desktop",
			"browser":            "Chrome",
			"index":              1.0,
			"created_epoch_time": float64(now.AddDate(0, 0, -2).Unix()),
		},
		{
			"id":                 2.0,
			"content":            "love it",
			"country_code":       "US",
			"device":             "mobile",
			"browser":            "Safari",
			"index":              5.0,
			"created_epoch_time": float64(now.AddDate(0, 0, -40).Unix()),
		},
		{
			"id":           1.0,
			"country_code": "DE",
			"device":       "tablet",
			"index":        2.0,
		},
	}
}

func ids(records []hotjar.FeedbackRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"].(float64))
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "field comparison",
			expression: `country_code == "DE"`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `country_code == "unclosed`,
			wantErr:    true,
		},
		{
			name:       "helpers",
			expression: `icontains(content, "broken") and created() > daysAgo(7) and hasField("browser")`,
		},
		{
			name:       "non boolean result",
			expression: `daysAgo(3)`,
			wantErr:    true,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				require.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []float64
	}{
		{"equality", `country_code == "DE"`, []float64{3, 1}},
		{"numeric", `index > 1`, []float64{2, 1}},
		{"case insensitive contains", `icontains(content, "broken")`, []float64{3}},
		{"missing field is nil", `content == nil`, []float64{1}},
		{"hasField", `hasField("browser")`, []float64{3, 2}},
		{"created within a week", `created() > daysAgo(7)`, []float64{3}},
		{"daysSince", `hasField("created_epoch_time") and daysSince(created()) >= 30`, []float64{2}},
		{"prefix", `hasPrefix(device, "MOB") or hasSuffix(device, "let")`, []float64{2, 1}},
		{"record map", `Record["device"] in ["desktop", "tablet"]`, []float64{3, 1}},
		{"parseDate", `created() > parseDate("2000-01-01")`, []float64{3, 2}},
		{"contains operator", `content contains "love"`, []float64{2}},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			got, err := Apply(context.Background(), f, sampleRecords())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, len(tt.want), Count(f, sampleRecords()))
		})
	}
}

func TestRecordFieldsCannotShadowHelpers(t *testing.T) {
	f, err := NewExprCompiler().Compile(`hasField("id")`)
	require.NoError(t, err)

	record := hotjar.FeedbackRecord{"id": 1.0, "hasField": "oops"}
	assert.True(t, f.Evaluate(record))
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isEU": func(code any) bool {
			return code == "DE" || code == "FR"
		},
	}))

	f, err := compiler.Compile(`isEU(country_code)`)
	require.NoError(t, err)

	got, err := Apply(context.Background(), f, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, ids(got))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	a, err := compiler.Compile(`index > 1`)
	require.NoError(t, err)
	again, err := compiler.Compile(`  index > 1  `)
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`index > 2`)
	require.NoError(t, err)
	_, err = compiler.Compile(`index > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	// least recently used entry was evicted
	evicted, err := compiler.Compile(`index > 1`)
	require.NoError(t, err)
	assert.NotSame(t, a, evicted)

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())

	assert.Equal(t, 0, NewExprCompiler().Size())
}

func TestApplyCancelled(t *testing.T) {
	f, err := NewExprCompiler().Compile(`true`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Apply(ctx, f, sampleRecords())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)

	got, err = Apply(context.Background(), f, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestManager(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.RegisterFilters(map[string]string{
		"german":   `country_code == "DE"`,
		"mobile":   `device == "mobile"`,
		"complain": `icontains(content, "broken")`,
	}))
	assert.Equal(t, []string{"complain", "german", "mobile"}, m.ListFilters())

	got, err := m.EvaluateFilter(context.Background(), "german", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, ids(got))

	_, err = m.EvaluateFilter(context.Background(), "missing", sampleRecords())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "filter 'missing' not found", err.Error())

	err = m.RegisterFilters(map[string]string{"bad": `((`, "ok": `true`})
	require.Error(t, err)
	_, exists := m.GetFilter("ok")
	assert.False(t, exists, "no filter is registered when one fails")

	require.NoError(t, m.RegisterFilter("german", `country_code == "US"`))
	f, ok := m.GetFilter("german")
	require.True(t, ok)
	assert.Equal(t, `country_code == "US"`, f.Expression())

	adhoc, err := m.Compile(`id == 2`)
	require.NoError(t, err)
	assert.Equal(t, 1, Count(adhoc, sampleRecords()))
}
