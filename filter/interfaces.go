package filter

import (
	"github.com/s0up4200/hotjar/hotjar"
)

// Filter defines the basic interface for feedback record filters
type Filter interface {
	// Evaluate checks if a record matches the filter criteria
	Evaluate(record hotjar.FeedbackRecord) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
