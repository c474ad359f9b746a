package binlogfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/binlogfile"
)

func writeIndex(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binlog_index")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewIndexMissingFile(t *testing.T) {
	_, err := binlogfile.NewIndex(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestBinLogFilesStripsBlankLinesAndDirectories(t *testing.T) {
	path := writeIndex(t, "/var/lib/mysql/mysql-bin.000001", "", "  ", "mysql-bin.000002")

	idx, err := binlogfile.NewIndex(path)
	require.NoError(t, err)

	files, err := idx.BinLogFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"mysql-bin.000001", "mysql-bin.000002"}, files)
}

func TestHasChangedFalseUntilFileModified(t *testing.T) {
	path := writeIndex(t, "mysql-bin.000001")

	idx, err := binlogfile.NewIndex(path)
	require.NoError(t, err)

	changed, err := idx.HasChanged()
	require.NoError(t, err)
	assert.False(t, changed)

	// Force a distinct mtime: some filesystems have coarse mtime
	// resolution, so back the clock up rather than racing the clock
	// forward.
	past := time.Now().Add(-time.Second)
	require.NoError(t, os.WriteFile(path, []byte("mysql-bin.000001\nmysql-bin.000002\n"), 0o644))
	require.NoError(t, os.Chtimes(path, past, past))

	changed, err = idx.HasChanged()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = idx.HasChanged()
	require.NoError(t, err)
	assert.False(t, changed)
}
