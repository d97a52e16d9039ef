package connect

import (
	"regexp"

	"github.com/go-sif/optimus/errors"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

var urlSchema = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*)://`)

// S3Options configures an S3 Connection
type S3Options struct {
	EndpointURL     string `mapstructure:"endpoint_url" toml:"endpoint_url"`
	Bucket          string `mapstructure:"bucket" toml:"bucket"`
	BaseURL         string `mapstructure:"base_url" toml:"base_url"`
	Key             string `mapstructure:"key" toml:"key"`
	Secret          string `mapstructure:"secret" toml:"secret"`
	Token           string `mapstructure:"token" toml:"token"`
	Anon            bool   `mapstructure:"anon" toml:"anon"`
	Profile         string `mapstructure:"profile" toml:"profile"`                   // section of CredentialsFile holding the key and secret
	CredentialsFile string `mapstructure:"credentials_file" toml:"credentials_file"` // INI file in the ~/.aws/credentials format
}

// S3 is a Connection to Amazon S3 or a compatible store. Credentials missing from opts are
// read from opts.Profile in opts.CredentialsFile, on fs.
func S3(fs afero.Fs, opts S3Options) (*Connection, error) {
	if len(opts.EndpointURL) == 0 {
		return nil, errors.ConnectionConfigError{Field: "endpoint_url"}
	}
	config := map[string]interface{}{"endpoint_url": opts.EndpointURL, "bucket": opts.Bucket}

	endpoint, schema := opts.EndpointURL, "https"
	if m := urlSchema.FindStringSubmatch(endpoint); m != nil {
		schema = m[1]
		endpoint = endpoint[len(m[0]):]
	}

	if len(opts.Key) == 0 && len(opts.Profile) > 0 {
		key, secret, err := LoadProfile(fs, opts.CredentialsFile, opts.Profile)
		if err != nil {
			return nil, err
		}
		opts.Key, opts.Secret = key, secret
	}

	options := map[string]interface{}{
		"client_kwargs": map[string]interface{}{"endpoint_url": schema + "://" + endpoint},
	}
	switch {
	case len(opts.BaseURL) > 0:
		options[baseURLKey] = opts.BaseURL
	case len(opts.Bucket) > 0:
		options[baseURLKey] = "s3://" + opts.Bucket
	default:
		options[baseURLKey] = "s3://" + endpoint
	}
	if len(opts.Key) > 0 {
		options["key"] = opts.Key
		config["key"] = opts.Key
	}
	if len(opts.Secret) > 0 {
		options["secret"] = opts.Secret
		config["secret"] = opts.Secret
	}
	if len(opts.Token) > 0 {
		options["token"] = opts.Token
	}
	if opts.Anon {
		options["anon"] = true
	}
	return NewConnection("s3", config, options), nil
}

// Boto returns the settings of an S3 client for this Connection
func (c *Connection) Boto() map[string]interface{} {
	return map[string]interface{}{
		"endpoint_url":          c.config["endpoint_url"],
		"aws_access_key_id":     c.config["key"],
		"aws_secret_access_key": c.config["secret"],
	}
}

// LoadProfile reads aws_access_key_id and aws_secret_access_key from one section of an
// AWS credentials file
func LoadProfile(fs afero.Fs, path string, profile string) (key string, secret string, err error) {
	if len(path) == 0 {
		return "", "", errors.ConnectionConfigError{Field: "credentials_file", Reason: "required to read a profile"}
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", "", err
	}
	f, err := ini.Load(b)
	if err != nil {
		return "", "", err
	}
	section, err := f.GetSection(profile)
	if err != nil {
		return "", "", errors.ConnectionConfigError{Field: "profile", Reason: err.Error()}
	}
	key = section.Key("aws_access_key_id").String()
	secret = section.Key("aws_secret_access_key").String()
	if len(key) == 0 {
		return "", "", errors.ConnectionConfigError{Field: "aws_access_key_id", Reason: "missing from profile " + profile}
	}
	return key, secret, nil
}
