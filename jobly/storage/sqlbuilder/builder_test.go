package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderPlaceholders(t *testing.T) {
	cases := []struct {
		style PlaceholderStyle
		want  []string
	}{
		{PlaceholderDollar, []string{"$1", "$2", "$3"}},
		{PlaceholderNumbered, []string{"?1", "?2", "?3"}},
		{PlaceholderQuestion, []string{"?", "?", "?"}},
	}
	for _, tc := range cases {
		b := New(tc.style)
		var got []string
		for _, v := range []any{"a", 2, nil} {
			got = append(got, b.Arg(v))
		}
		assert.Equal(t, tc.want, got)
		assert.Equal(t, []any{"a", 2, nil}, b.Args())
		assert.Equal(t, 3, b.Len())
	}
}

func TestBuilderSince(t *testing.T) {
	b := New(PlaceholderDollar)
	b.Arg(1)
	b.Arg(2)

	tail := b.Since(1)
	assert.Equal(t, []any{2}, tail)
	tail[0] = 99
	assert.Equal(t, []any{1, 2}, b.Args())

	assert.Equal(t, []any{}, b.Since(2))
	assert.Equal(t, []any{}, b.Since(5))
}
