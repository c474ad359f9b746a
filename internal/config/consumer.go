package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/pathutil"
)

type ConsumerData struct {
	BasePath       string `toml:"base_path"`
	LastOffsetFile string `toml:"last_offset_file"`
}

type DatabaseOptions struct {
	IPOrHost string `toml:"ip_or_host"`
	Port     *int   `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// ConsumerProfile is the decoded shape of a consumer TOML profile.
type ConsumerProfile struct {
	Data     ConsumerData          `toml:"data"`
	Database DatabaseOptions       `toml:"database"`
	Filters  *cdcmsg.Filters       `toml:"filters"`
	Fluvio   *consumerFluvioTopic `toml:"fluvio"`
}

type consumerFluvioTopic struct {
	Topic string `toml:"topic"`
	Addr  string `toml:"addr"`
}

func (c *ConsumerProfile) Topic() string {
	if c.Fluvio != nil && c.Fluvio.Topic != "" {
		return c.Fluvio.Topic
	}
	return DefaultTopic
}

// BrokerAddr returns the bus broker address, defaulting to a local
// single-node broker when the profile omits [fluvio].addr.
func (c *ConsumerProfile) BrokerAddr() string {
	if c.Fluvio != nil && c.Fluvio.Addr != "" {
		return c.Fluvio.Addr
	}
	return DefaultBrokerAddr
}

func (c *ConsumerProfile) Port() int {
	if c.Database.Port != nil {
		return *c.Database.Port
	}
	return 3306
}

// DSN builds a go-sql-driver/mysql data source name from the profile's
// database credentials, targeting the named schema.
func (c *ConsumerProfile) DSN(schema string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.Database.User, c.Database.Password, c.Database.IPOrHost, c.Port(), schema)
}

// LoadConsumerProfile reads and normalizes a consumer profile file.
func LoadConsumerProfile(path string) (*ConsumerProfile, error) {
	var profile ConsumerProfile
	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return nil, cdcerr.WrapConfig(err, "decoding consumer profile %s", path)
	}

	if profile.Filters != nil {
		profile.Filters.Normalize()
	}

	basePath, err := pathutil.ExpandTilde(profile.Data.BasePath)
	if err != nil {
		return nil, cdcerr.WrapConfig(err, "expanding base_path %s", profile.Data.BasePath)
	}
	profile.Data.BasePath = basePath
	profile.Data.LastOffsetFile = filepath.Join(basePath, profile.Data.LastOffsetFile)

	return &profile, nil
}
