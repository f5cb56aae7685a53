package listing

import "fmt"

// SQLBuilder collects positional arguments for a query under construction.
type SQLBuilder struct {
	args []any
}

func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{args: make([]any, 0)}
}

// AddArg appends a value and returns its 1-based position.
func (b *SQLBuilder) AddArg(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

// Placeholder renders the positional parameter for idx.
func (b *SQLBuilder) Placeholder(idx int) string {
	return fmt.Sprintf("$%d", idx)
}

// Bind adds value and returns its placeholder.
func (b *SQLBuilder) Bind(value any) string {
	return b.Placeholder(b.AddArg(value))
}

// Args returns the collected arguments in placeholder order.
func (b *SQLBuilder) Args() []any {
	return b.args
}
