package binlogfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/binlogfile"
)

func TestFileIDExtractsNumericSuffix(t *testing.T) {
	assert.Equal(t, 7, binlogfile.FileID("mysql-bin.000007"))
	assert.Equal(t, 23, binlogfile.FileID("mysql-bin.23"))
	assert.Equal(t, 0, binlogfile.FileID("mysql-bin"))
}

func TestNewFileMissingFileErrors(t *testing.T) {
	_, err := binlogfile.New(t.TempDir(), "missing-bin.000001", nil)
	assert.Error(t, err)
}

func TestFilePathAndFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mysql-bin.000001"), []byte("data"), 0o644))

	f, err := binlogfile.New(dir, "mysql-bin.000001", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mysql-bin.000001"), f.Path())
	assert.Equal(t, "mysql-bin.000001", f.FileName())
	assert.Nil(t, f.Offset())
	assert.Equal(t, 1, f.FileID())
}

func TestFileHasChangedOnGrowth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mysql-bin.000001")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	f, err := binlogfile.New(dir, "mysql-bin.000001", nil)
	require.NoError(t, err)

	changed, err := f.HasChanged()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("data-grew-longer"), 0o644))

	changed, err = f.HasChanged()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.HasChanged()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFileSetOffset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mysql-bin.000001"), []byte("data"), 0o644))

	f, err := binlogfile.New(dir, "mysql-bin.000001", nil)
	require.NoError(t, err)

	offset := uint64(128)
	f.SetOffset(&offset)
	require.NotNil(t, f.Offset())
	assert.Equal(t, offset, *f.Offset())
}
