package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/config"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProducerProfileJoinsDataPathsUnderBasePath(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "my-resource", profile.MysqlResourceName)
	assert.Equal(t, filepath.Join(dataDir, "binlog_index"), profile.Data.BinlogIndexFile)
	assert.Equal(t, filepath.Join(dataDir, "resume"), profile.Data.ResumeOffsetFile)
	assert.Equal(t, filepath.Join(dataDir, "catalog.json"), profile.Data.LocalStoreFile)
}

func TestProducerProfileDefaults(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTopic, profile.Topic())
	assert.Equal(t, config.DefaultReplicas, profile.Replicas())
	assert.Equal(t, config.DefaultBrokerAddr, profile.BrokerAddr())
}

func TestProducerProfileFluvioOverrides(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"

[fluvio]
topic = "custom-topic"
replicas = 3
addr = "broker:9092"
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-topic", profile.Topic())
	assert.Equal(t, 3, profile.Replicas())
	assert.Equal(t, "broker:9092", profile.BrokerAddr())
}

func TestLoadProducerProfileDatabaseOptions(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"

[database]
ip_or_host = "127.0.0.1"
user = "root"
password = "secret"
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", profile.Database.IPOrHost)
	assert.Equal(t, "root", profile.Database.User)
	assert.Equal(t, "secret", profile.Database.Password)
	assert.Equal(t, 3306, profile.Port())
}

func TestProducerProfilePortOverride(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"

[database]
ip_or_host = "127.0.0.1"
port = 3307
user = "root"
password = "secret"
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 3307, profile.Port())
}

func TestProducerProfileNormalizesFilters(t *testing.T) {
	dataDir := t.TempDir()
	path := writeProfile(t, `
mysql_resource_name = "my-resource"

[data]
base_path = "`+dataDir+`"
binlog_index_file = "binlog_index"
resume_offset_file = "resume"
local_store_file = "catalog.json"

[filters]
include_dbs = ["FlvTest"]
`)

	profile, err := config.LoadProducerProfile(path)
	require.NoError(t, err)
	require.NotNil(t, profile.Filters)
	assert.Equal(t, []string{"flvtest"}, profile.Filters.IncludeDBs)
}
