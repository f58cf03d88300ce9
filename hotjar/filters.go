package hotjar

import (
	"strings"
	"time"
)

// Operator is a comparison understood by the hotjar filter syntax
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "ge"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "le"
)

// FilterExpr builds a server-side filter expression of the form
// field__op__value. The result is passed to the API as is.
func FilterExpr(field string, op Operator, value string) string {
	return strings.Join([]string{field, string(op), value}, "__")
}

// CreatedSince matches responses created on or after the day of t
func CreatedSince(t time.Time) string {
	return FilterExpr("created", OpGreaterEqual, t.Format(time.DateOnly))
}
