package connect

import (
	"strings"

	"github.com/go-sif/optimus/errors"
)

// HDFSOptions configures an HDFS Connection. URL wins over the individual fields.
type HDFSOptions struct {
	URL      string `mapstructure:"url" toml:"url"`
	User     string `mapstructure:"user" toml:"user"`
	Password string `mapstructure:"password" toml:"password"`
	Host     string `mapstructure:"host" toml:"host"`
	Port     string `mapstructure:"port" toml:"port"`
}

// HDFS is a Connection to a Hadoop filesystem
func HDFS(opts HDFSOptions) (*Connection, error) {
	url := opts.URL
	switch {
	case len(url) == 0:
		if len(opts.User) == 0 {
			return nil, errors.ConnectionConfigError{Field: "user", Reason: "required when url is not set"}
		}
		if len(opts.Host) == 0 {
			return nil, errors.ConnectionConfigError{Field: "host", Reason: "required when url is not set"}
		}
		var sb strings.Builder
		sb.WriteString("hdfs://")
		sb.WriteString(opts.User)
		if len(opts.Password) > 0 {
			sb.WriteString(":" + opts.Password)
		}
		sb.WriteString("@" + opts.Host)
		if len(opts.Port) > 0 {
			sb.WriteString(":" + opts.Port)
		}
		url = sb.String()
	case !strings.HasPrefix(url, "hdfs://"):
		url = "hdfs://" + url
	}
	config := map[string]interface{}{"url": opts.URL, "user": opts.User, "host": opts.Host, "port": opts.Port}
	options := map[string]interface{}{baseURLKey: url}
	if len(opts.User) > 0 {
		options["user"] = opts.User
	}
	return NewConnection("hdfs", config, options), nil
}
