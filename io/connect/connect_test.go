package connect

import (
	"testing"

	"github.com/go-sif/optimus/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	c := Local(afero.NewMemMapFs(), "/data")
	require.Equal(t, "/data/", c.BaseURL())
	require.Equal(t, "/data/people.csv", c.Path("people.csv"))
	require.Equal(t, "/data/people.csv", c.Path("/data/people.csv"))
	require.Equal(t, "s3://bucket/people.csv", c.Path("s3://bucket/people.csv"))
	require.Nil(t, c.StorageOptions())

	bare := Local(nil, "")
	require.Equal(t, "people.csv", bare.Path("people.csv"))
}

func TestStorageOptions(t *testing.T) {
	c := MAS(map[string]interface{}{"base_url": "abfs://container", "account_name": "acct", "_internal": 1})
	require.Equal(t, map[string]interface{}{"account_name": "acct"}, c.StorageOptions())
	require.Equal(t, "abfs://container/", c.BaseURL())
}

func TestS3(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := S3(fs, S3Options{Bucket: "b"})
	var cfgErr errors.ConnectionConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "endpoint_url", cfgErr.Field)

	c, err := S3(fs, S3Options{EndpointURL: "http://localhost:9000", Bucket: "data", Key: "k", Secret: "s"})
	require.Nil(t, err)
	require.Equal(t, "s3://data/", c.BaseURL())
	require.Equal(t, "s3://data/x.csv", c.Path("x.csv"))
	opts := c.StorageOptions()
	require.Equal(t, map[string]interface{}{"endpoint_url": "http://localhost:9000"}, opts["client_kwargs"])
	require.Equal(t, "k", opts["key"])
	require.Equal(t, "k", c.Boto()["aws_access_key_id"])

	c, err = S3(fs, S3Options{EndpointURL: "s3.amazonaws.com"})
	require.Nil(t, err)
	require.Equal(t, "s3://s3.amazonaws.com/", c.BaseURL())
	require.Equal(t, map[string]interface{}{"endpoint_url": "https://s3.amazonaws.com"}, c.StorageOptions()["client_kwargs"])
}

func TestS3Profile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/home/.aws/credentials", []byte(`
[default]
aws_access_key_id = AKIA
aws_secret_access_key = shh

[empty]
region = us-east-1
`), 0644))
	c, err := S3(fs, S3Options{EndpointURL: "https://s3.amazonaws.com", Bucket: "b", Profile: "default", CredentialsFile: "/home/.aws/credentials"})
	require.Nil(t, err)
	require.Equal(t, "AKIA", c.StorageOptions()["key"])
	require.Equal(t, "shh", c.StorageOptions()["secret"])

	_, err = S3(fs, S3Options{EndpointURL: "https://s3.amazonaws.com", Profile: "empty", CredentialsFile: "/home/.aws/credentials"})
	require.NotNil(t, err)
	_, err = S3(fs, S3Options{EndpointURL: "https://s3.amazonaws.com", Profile: "missing", CredentialsFile: "/home/.aws/credentials"})
	require.NotNil(t, err)
}

func TestHDFS(t *testing.T) {
	c, err := HDFS(HDFSOptions{User: "hadoop", Password: "pw", Host: "namenode", Port: "8020"})
	require.Nil(t, err)
	require.Equal(t, "hdfs://hadoop:pw@namenode:8020/", c.BaseURL())

	c, err = HDFS(HDFSOptions{URL: "namenode:8020/data"})
	require.Nil(t, err)
	require.Equal(t, "hdfs://namenode:8020/data/", c.BaseURL())

	_, err = HDFS(HDFSOptions{Host: "namenode"})
	require.NotNil(t, err)
}

func TestJDBCURL(t *testing.T) {
	for _, c := range []struct {
		jdbc     JDBC
		expected string
	}{
		{JDBC{Driver: MySQL, Host: "db", Database: "shop"}, "jdbc:mysql://db:3306/shop"},
		{JDBC{Driver: PostgreSQL, Host: "db", Database: "shop", Port: 6543}, "jdbc:postgresql://db:6543/shop"},
		{JDBC{Driver: MSSQL, Host: "db", Database: "shop"}, "jdbc:sqlserver://db:1433;databaseName=shop"},
		{JDBC{Driver: Redshift, Host: "db", Database: "shop"}, "jdbc:redshift://db:5439/shop"},
		{JDBC{Driver: SQLite, Database: "shop.db"}, "jdbc:sqlite:shop.db"},
		{JDBC{Driver: Presto, Host: "db", Catalog: "hive"}, "jdbc:presto://db:8080/hive/public"},
		{JDBC{Driver: Cassandra, Host: "db", Keyspace: "ks"}, "jdbc:cassandra://db:9042/ks"},
		{JDBC{Driver: Redis, Host: "cache", Database: "0"}, "jdbc:redis://cache:6379/0"},
		{JDBC{Driver: Oracle, Host: "db", SID: "ORCL"}, "jdbc:oracle:thin:@db:1521:ORCL"},
		{JDBC{Driver: Oracle, Host: "db", ServiceName: "svc"}, "jdbc:oracle:thin:@//db:1521/svc"},
		{JDBC{Driver: BigQuery, Project: "p", Dataset: "d"}, "jdbc:bigquery://https://www.googleapis.com/bigquery/v2:443;ProjectId=p;DefaultDataset=d"},
	} {
		url, err := c.jdbc.URL()
		require.Nil(t, err)
		require.Equal(t, c.expected, url)
	}
}

func TestJDBCMissingFields(t *testing.T) {
	var cfgErr errors.ConnectionConfigError
	_, err := JDBC{Driver: MySQL, Host: "db"}.URL()
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "database", cfgErr.Field)

	_, err = JDBC{Driver: Oracle, Host: "db"}.URL()
	require.ErrorAs(t, err, &cfgErr)
	_, err = JDBC{Driver: "spark"}.URL()
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "driver", cfgErr.Field)
}

func TestJDBCDSN(t *testing.T) {
	driver, dsn, err := JDBC{Driver: MySQL, Host: "db", Database: "shop", User: "root", Password: "pw"}.DSN()
	require.Nil(t, err)
	require.Equal(t, "mysql", driver)
	require.Equal(t, "root:pw@tcp(db:3306)/shop?parseTime=true", dsn)

	_, _, err = JDBC{Driver: PostgreSQL, Host: "db", Database: "shop"}.DSN()
	var unsupported errors.UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)

	require.Equal(t, "SELECT * FROM public.orders", JDBC{Driver: PostgreSQL}.TableQuery("orders"))
	require.Equal(t, "SELECT * FROM orders", JDBC{Driver: MySQL}.TableQuery("orders"))
}
