// Package config loads the producer and consumer TOML profiles,
// expanding "~" and joining the data-file paths under base_path.
package config

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/pathutil"
)

const (
	DefaultTopic      = "rust-mysql-cdc"
	DefaultReplicas   = 1
	DefaultBrokerAddr = "localhost:9092"
)

type ProducerData struct {
	BasePath         string `toml:"base_path"`
	BinlogIndexFile  string `toml:"binlog_index_file"`
	ResumeOffsetFile string `toml:"resume_offset_file"`
	LocalStoreFile   string `toml:"local_store_file"`
}

type FluvioOptions struct {
	Topic    string `toml:"topic"`
	Replicas *int   `toml:"replicas"`
	Addr     string `toml:"addr"`
}

// ProducerProfile is the decoded shape of a producer TOML profile.
type ProducerProfile struct {
	MysqlResourceName string          `toml:"mysql_resource_name"`
	Data              ProducerData    `toml:"data"`
	Database          DatabaseOptions `toml:"database"`
	Filters           *cdcmsg.Filters `toml:"filters"`
	Fluvio            *FluvioOptions  `toml:"fluvio"`
}

// Port returns the source database's port, defaulting to 3306 when the
// profile omits [database].port.
func (p *ProducerProfile) Port() int {
	if p.Database.Port != nil {
		return *p.Database.Port
	}
	return 3306
}

func (p *ProducerProfile) Topic() string {
	if p.Fluvio != nil && p.Fluvio.Topic != "" {
		return p.Fluvio.Topic
	}
	return DefaultTopic
}

func (p *ProducerProfile) Replicas() int {
	if p.Fluvio != nil && p.Fluvio.Replicas != nil {
		return *p.Fluvio.Replicas
	}
	return DefaultReplicas
}

// BrokerAddr returns the bus broker address, defaulting to a local
// single-node broker when the profile omits [fluvio].addr.
func (p *ProducerProfile) BrokerAddr() string {
	if p.Fluvio != nil && p.Fluvio.Addr != "" {
		return p.Fluvio.Addr
	}
	return DefaultBrokerAddr
}

// LoadProducerProfile reads and normalizes a producer profile file.
func LoadProducerProfile(path string) (*ProducerProfile, error) {
	var profile ProducerProfile
	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return nil, cdcerr.WrapConfig(err, "decoding producer profile %s", path)
	}

	if profile.Filters != nil {
		profile.Filters.Normalize()
	}

	basePath, err := pathutil.ExpandTilde(profile.Data.BasePath)
	if err != nil {
		return nil, cdcerr.WrapConfig(err, "expanding base_path %s", profile.Data.BasePath)
	}
	profile.Data.BasePath = basePath
	profile.Data.BinlogIndexFile = filepath.Join(basePath, profile.Data.BinlogIndexFile)
	profile.Data.ResumeOffsetFile = filepath.Join(basePath, profile.Data.ResumeOffsetFile)
	profile.Data.LocalStoreFile = filepath.Join(basePath, profile.Data.LocalStoreFile)

	return &profile, nil
}
