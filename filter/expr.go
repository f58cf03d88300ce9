package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/hotjar/hotjar"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Record fields are unknown until runtime
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a feedback record. Records the
// expression cannot be evaluated on do not match.
func (f *exprFilter) Evaluate(record hotjar.FeedbackRecord) bool {
	result, err := expr.Run(f.program, f.environment(record))
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment exposes the record's fields as variables. Helpers are added
// last so a record field can never shadow one.
func (f *exprFilter) environment(record hotjar.FeedbackRecord) map[string]any {
	env := make(map[string]any, len(record)+len(f.helpers)+1)

	maps.Copy(env, record)
	env["Record"] = map[string]any(record)
	maps.Copy(env, f.helpers)

	env["hasField"] = func(field string) bool {
		_, ok := record[field]
		return ok
	}
	env["created"] = func() time.Time {
		return createdAt(record)
	}

	return env
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)

	// Placeholders carrying the signatures of the per-record helpers
	funcs["hasField"] = func(string) bool { return false }
	funcs["created"] = func() time.Time { return time.Time{} }

	return funcs
}

// addHelperFunctions adds all record independent helper functions
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(time.DateOnly, dateStr)
		return t
	}
	// Case-insensitive string helpers, tolerant of missing fields
	env["icontains"] = func(v any, substr string) bool {
		return strings.Contains(strings.ToLower(toString(v)), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(v any, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(toString(v)), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(v any, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(toString(v)), strings.ToLower(suffix))
	}
}

// createdAt reads created_epoch_time (seconds) from a record
func createdAt(record hotjar.FeedbackRecord) time.Time {
	switch v := record["created_epoch_time"].(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case int64:
		return time.Unix(v, 0)
	case int:
		return time.Unix(int64(v), 0)
	}
	return time.Time{}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
