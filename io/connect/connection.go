// Package connect describes where data lives: storage Connections which resolve
// relative paths, and JDBC-style database connectors.
package connect

import (
	"strings"

	"github.com/spf13/afero"
)

// Schemas are the URL prefixes which mark a path as already absolute
var Schemas = []string{
	"s3://", "gcs://", "gs://", "hdfs://", "az://", "adl://", "abfs://",
	"http://", "https://", "ftp://", "file://",
}

const baseURLKey = "base_url"

// Connection resolves paths against a base URL and carries the options storage
// clients need to reach it
type Connection struct {
	kind    string
	options map[string]interface{}
	config  map[string]interface{}
	fs      afero.Fs
}

// NewConnection creates a Connection. options holds storage options plus an optional base_url,
// config the settings the Connection was created with (options when nil).
func NewConnection(kind string, config map[string]interface{}, options map[string]interface{}) *Connection {
	opts := make(map[string]interface{}, len(options))
	for k, v := range options {
		opts[k] = v
	}
	if base, ok := opts[baseURLKey].(string); ok && len(base) > 0 && !strings.HasSuffix(base, "/") {
		opts[baseURLKey] = base + "/"
	}
	if config == nil {
		config = opts
	}
	return &Connection{kind: kind, options: opts, config: config, fs: afero.NewOsFs()}
}

// Kind names the storage this Connection points to
func (c *Connection) Kind() string {
	return c.kind
}

// BaseURL returns the prefix of relative paths, which always ends with a slash
func (c *Connection) BaseURL() string {
	base, _ := c.options[baseURLKey].(string)
	return base
}

// Fs returns the filesystem local paths of this Connection are read from
func (c *Connection) Fs() afero.Fs {
	return c.fs
}

// Path resolves p against the base URL, unless p already starts with it or with a URL schema
func (c *Connection) Path(p string) string {
	base := c.BaseURL()
	if len(base) == 0 || strings.HasPrefix(p, base) {
		return p
	}
	for _, s := range Schemas {
		if strings.HasPrefix(p, s) {
			return p
		}
	}
	return base + p
}

// StorageOptions returns the options meant for storage clients: everything but base_url
// and keys starting with an underscore. It is nil when nothing remains.
func (c *Connection) StorageOptions() map[string]interface{} {
	res := make(map[string]interface{})
	for k, v := range c.options {
		if k == baseURLKey || strings.HasPrefix(k, "_") {
			continue
		}
		res[k] = v
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// Config returns the settings this Connection was created with
func (c *Connection) Config() map[string]interface{} {
	return c.config
}

// Local is a Connection to a filesystem
func Local(fs afero.Fs, baseURL string) *Connection {
	c := NewConnection("local", nil, map[string]interface{}{baseURLKey: baseURL})
	if fs != nil {
		c.fs = fs
	}
	return c
}

// MAS is a Connection to Microsoft Azure Storage. adl authentication expects tenant_id,
// client_id and client_secret among options, abfs expects account_name and account_key.
func MAS(options map[string]interface{}) *Connection {
	return NewConnection("mas", nil, options)
}

// GCS is a Connection to Google Cloud Storage
func GCS(options map[string]interface{}) *Connection {
	return NewConnection("gcs", nil, options)
}
