package planner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

func TestCompilePartialUpdateTranslatesKnownFields(t *testing.T) {
	fields := NewFieldMap("firstName", "Michael", "lastName", "Jordan")

	got, err := CompilePartialUpdate(fields, ColumnNames{"firstName": "first_name"})
	require.NoError(t, err)
	assert.Equal(t, `"first_name"=$1, "lastName"=$2`, got.Clause)
	assert.Equal(t, []any{"Michael", "Jordan"}, got.Args)
}

func TestCompilePartialUpdateEmptyTable(t *testing.T) {
	fields := NewFieldMap("firstName", "Michael", "lastName", "Jordan")

	got, err := CompilePartialUpdate(fields, ColumnNames{})
	require.NoError(t, err)
	assert.Equal(t, `"firstName"=$1, "lastName"=$2`, got.Clause)
	assert.Equal(t, []any{"Michael", "Jordan"}, got.Args)
}

func TestCompilePartialUpdateNilTable(t *testing.T) {
	got, err := CompilePartialUpdate(NewFieldMap("title", "Engineer"), nil)
	require.NoError(t, err)
	assert.Equal(t, `"title"=$1`, got.Clause)
}

func TestCompilePartialUpdateSingleField(t *testing.T) {
	names := ColumnNames{"firstName": "first_name", "lastName": "last_name", "isAdmin": "is_admin"}

	got, err := CompilePartialUpdate(NewFieldMap("firstName", "Michael"), names)
	require.NoError(t, err)
	assert.Equal(t, `"first_name"=$1`, got.Clause)
	assert.Equal(t, []any{"Michael"}, got.Args)
}

func TestCompilePartialUpdateRejectsEmpty(t *testing.T) {
	for name, fields := range map[string]*FieldMap{
		"nil":   nil,
		"zero":  {},
		"built": NewFieldMap(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CompilePartialUpdate(fields, ColumnNames{"a": "b"})
			require.Error(t, err)
			assert.True(t, jerrors.IsCode(err, jerrors.ErrBadRequest), "got %v", err)
		})
	}
}

func TestCompilePartialUpdateKeepsNull(t *testing.T) {
	got, err := CompilePartialUpdate(NewFieldMap("logoUrl", nil, "numEmployees", int64(3)),
		ColumnNames{"numEmployees": "num_employees", "logoUrl": "logo_url"})
	require.NoError(t, err)
	assert.Equal(t, `"logo_url"=$1, "num_employees"=$2`, got.Clause)
	assert.Equal(t, []any{nil, int64(3)}, got.Args)
}

func TestCompilePartialUpdatePositionsMatchArgs(t *testing.T) {
	fields := &FieldMap{}
	for i := 0; i < 12; i++ {
		fields.Set(fmt.Sprintf("f%d", i), i)
	}

	got, err := CompilePartialUpdate(fields, nil)
	require.NoError(t, err)

	frags := strings.Split(got.Clause, ", ")
	require.Len(t, got.Args, len(frags))
	for i, frag := range frags {
		assert.Equal(t, fmt.Sprintf(`"f%d"=$%d`, i, i+1), frag)
		assert.Equal(t, i, got.Args[i])
	}
}

func TestCompilePartialUpdateWithContinuesNumbering(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	b.Arg("already-bound")

	got, err := CompilePartialUpdateWith(b, NewFieldMap("name", "New"), nil)
	require.NoError(t, err)
	assert.Equal(t, `"name"=$2`, got.Clause)
	assert.Equal(t, []any{"New"}, got.Args)

	assert.Equal(t, "$3", b.Arg("c1"))
	assert.Equal(t, []any{"already-bound", "New", "c1"}, b.Args())
}

func TestCompilePartialUpdateNumberedStyle(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderNumbered)
	got, err := CompilePartialUpdateWith(b, NewFieldMap("title", "T", "salary", int64(10)), nil)
	require.NoError(t, err)
	assert.Equal(t, `"title"=?1, "salary"=?2`, got.Clause)
}

func TestCompilePartialUpdateQuotesIdentifiers(t *testing.T) {
	got, err := CompilePartialUpdate(NewFieldMap(`we"ird`, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, `"we""ird"=$1`, got.Clause)
}

func TestCompilePartialUpdateIsRepeatable(t *testing.T) {
	fields := NewFieldMap("firstName", "Michael", "lastName", "Jordan")
	names := ColumnNames{"firstName": "first_name"}

	a, err := CompilePartialUpdate(fields, names)
	require.NoError(t, err)
	b, err := CompilePartialUpdate(fields, names)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestColumnNamesResolve(t *testing.T) {
	names := ColumnNames{"numEmployees": "num_employees", "blank": ""}
	assert.Equal(t, "num_employees", names.Resolve("numEmployees"))
	assert.Equal(t, "name", names.Resolve("name"))
	assert.Equal(t, "blank", names.Resolve("blank"))

	var none ColumnNames
	assert.Equal(t, "x", none.Resolve("x"))
}
