package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/catalog"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/ddlparse"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)
	return cat
}

func TestCatalogLoadMissingFileIsEmpty(t *testing.T) {
	cat := newCatalog(t)
	_, err := cat.Columns("flvTest", "pet")
	assert.Error(t, err)
}

func TestCatalogCreateTable(t *testing.T) {
	cat := newCatalog(t)
	err := cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("pet", []string{"name", "owner", "species"}),
	})
	require.NoError(t, err)

	columns, err := cat.Columns("flvTest", "pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "owner", "species"}, columns)
}

func TestCatalogAlterTableAddRenameDrop(t *testing.T) {
	cat := newCatalog(t)
	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("pet", []string{"name", "owner"}),
	}))

	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.AlterTable("pet", ddlparse.ColumnOp{Kind: ddlparse.ColumnAdd, Name: "species"}),
	}))
	columns, err := cat.Columns("flvTest", "pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "owner", "species"}, columns)

	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.AlterTable("pet", ddlparse.ColumnOp{Kind: ddlparse.ColumnRename, Name: "owner", NewName: "caretaker"}),
	}))
	columns, err = cat.Columns("flvTest", "pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "caretaker", "species"}, columns)

	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.AlterTable("pet", ddlparse.ColumnOp{Kind: ddlparse.ColumnDrop, Name: "species"}),
	}))
	columns, err = cat.Columns("flvTest", "pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "caretaker"}, columns)
}

func TestCatalogDropTable(t *testing.T) {
	cat := newCatalog(t)
	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("pet", []string{"name"}),
	}))

	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.DropTable([]string{"pet"}),
	}))

	_, err := cat.Columns("flvTest", "pet")
	assert.Error(t, err)
}

// Creating a table that already exists aborts the rest of the batch, but
// mutations applied earlier in the same Apply call are kept.
func TestCatalogCreateExistingTableAbortsBatchKeepingEarlierOps(t *testing.T) {
	cat := newCatalog(t)
	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("pet", []string{"name"}),
	}))

	err := cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("species", []string{"name"}),
		ddlparse.CreateTable("pet", []string{"name"}),
		ddlparse.CreateTable("owner", []string{"name"}),
	})
	assert.Error(t, err)

	columns, err := cat.Columns("flvTest", "species")
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, columns)

	_, err = cat.Columns("flvTest", "owner")
	assert.Error(t, err)
}

func TestCatalogPersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	require.NoError(t, cat.Apply("flvTest", []ddlparse.TableOp{
		ddlparse.CreateTable("pet", []string{"name", "owner"}),
	}))

	reloaded, err := catalog.Load(path)
	require.NoError(t, err)
	columns, err := reloaded.Columns("flvTest", "pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "owner"}, columns)
}
