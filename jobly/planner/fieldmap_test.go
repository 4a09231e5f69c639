package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMapUnmarshalKeepsDocumentOrder(t *testing.T) {
	var m FieldMap
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": "z", "alpha": 1, "mid": 0.25, "flag": true, "gone": null}`), &m))

	assert.Equal(t, []string{"zeta", "alpha", "mid", "flag", "gone"}, m.Keys())
	assert.Equal(t, []any{"z", int64(1), 0.25, true, nil}, m.Values())
}

func TestFieldMapUnmarshalDuplicateKeyKeepsFirstPosition(t *testing.T) {
	var m FieldMap
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &m))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestFieldMapUnmarshalRejectsNonScalars(t *testing.T) {
	for _, doc := range []string{
		`{"a": {"b": 1}}`,
		`{"a": [1, 2]}`,
		`[1, 2]`,
		`"text"`,
		`{"a": 1} {"b": 2}`,
	} {
		var m FieldMap
		assert.Error(t, json.Unmarshal([]byte(doc), &m), doc)
	}
}

func TestFieldMapSetDelete(t *testing.T) {
	m := NewFieldMap("a", 1, "b", 2, "c", 3)
	m.Set("b", 20)
	m.Delete("a")
	m.Delete("missing")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"b", "c"}, m.Keys())
	assert.Equal(t, []any{20, 3}, m.Values())
	assert.False(t, m.Has("a"))
}

func TestFieldMapNilIsEmpty(t *testing.T) {
	var m *FieldMap
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	assert.Nil(t, m.Keys())
}
