package applier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
)

var petColumns = []string{"name", "owner", "species"}

func TestBuildInsert(t *testing.T) {
	sql, values, err := buildInsert("pet", petColumns, cdcmsg.Row{0: "rex", 1: "sam", 2: "dog"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO pet (name, owner, species) VALUES (?, ?, ?)", sql)
	assert.Equal(t, []interface{}{"rex", "sam", "dog"}, values)
}

func TestBuildInsertEmptyRow(t *testing.T) {
	sql, values, err := buildInsert("pet", petColumns, cdcmsg.Row{})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO pet", sql)
	assert.Nil(t, values)
}

func TestBuildInsertUnknownColumn(t *testing.T) {
	_, _, err := buildInsert("pet", petColumns, cdcmsg.Row{5: "rex"})
	assert.Error(t, err)
}

func TestBuildWhereWithNilValue(t *testing.T) {
	sql, values, err := buildWhere("pet", petColumns, cdcmsg.Row{0: "rex", 1: nil})
	require.NoError(t, err)
	assert.Equal(t, "name = ? AND owner IS ?", sql)
	assert.Equal(t, []interface{}{"rex", nil}, values)
}

func TestBuildUpdate(t *testing.T) {
	pair := cdcmsg.RowPair{
		Before: cdcmsg.Row{0: "rex", 1: "sam", 2: "dog"},
		After:  cdcmsg.Row{0: "rex", 1: "alex", 2: "dog"},
	}
	sql, values, err := buildUpdate("pet", petColumns, pair)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE pet SET name = ?, owner = ?, species = ? WHERE name = ? AND owner = ? AND species = ?", sql)
	assert.Equal(t, []interface{}{"rex", "alex", "dog", "rex", "sam", "dog"}, values)
}

func TestBuildUpdateEmptyAfterStillKeysOnBefore(t *testing.T) {
	pair := cdcmsg.RowPair{
		Before: cdcmsg.Row{0: "rex"},
		After:  cdcmsg.Row{},
	}
	sql, values, err := buildUpdate("pet", petColumns, pair)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE pet WHERE name = ?", sql)
	assert.Equal(t, []interface{}{"rex"}, values)
}

func TestBuildDelete(t *testing.T) {
	sql, values, err := buildDelete("pet", petColumns, cdcmsg.Row{0: "rex", 2: "dog"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM pet WHERE name = ? AND species = ?", sql)
	assert.Equal(t, []interface{}{"rex", "dog"}, values)
}
