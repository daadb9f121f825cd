package repos

import "strings"

// setBuilder accumulates SET assignments for partial updates so only the
// fields present in a patch reach the statement.
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) add(col string, v any) {
	b.sets = append(b.sets, col+" = ?")
	b.args = append(b.args, v)
}

func (b *setBuilder) empty() bool { return len(b.sets) == 0 }

func (b *setBuilder) clause() string { return strings.Join(b.sets, ", ") }
