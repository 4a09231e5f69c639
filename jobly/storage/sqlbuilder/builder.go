package sqlbuilder

import "strconv"

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
	// PlaceholderNumbered is SQLite's ?NNN form, bound by position like $n.
	PlaceholderNumbered
)

// Builder accumulates bound arguments and hands out the placeholder for each.
// Placeholder numbers always equal the argument's 1-based position in Args.
type Builder struct {
	Style PlaceholderStyle
	args  []any
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, args: make([]any, 0)}
}

func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	switch b.Style {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(len(b.args))
	case PlaceholderNumbered:
		return "?" + strconv.Itoa(len(b.args))
	default:
		return "?"
	}
}

func (b *Builder) Args() []any { return b.args }
func (b *Builder) Len() int    { return len(b.args) }

// Since returns a copy of the arguments bound after the first n.
func (b *Builder) Since(n int) []any {
	if n >= len(b.args) {
		return []any{}
	}
	out := make([]any, len(b.args)-n)
	copy(out, b.args[n:])
	return out
}
