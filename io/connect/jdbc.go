package connect

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/go-sif/optimus/errors"
	"github.com/go-sql-driver/mysql"
)

// Driver names a database a JDBC connector can reach
type Driver string

// Drivers
const (
	MySQL      Driver = "mysql"
	PostgreSQL Driver = "postgresql"
	MSSQL      Driver = "sqlserver"
	Redshift   Driver = "redshift"
	SQLite     Driver = "sqlite"
	BigQuery   Driver = "bigquery"
	Presto     Driver = "presto"
	Cassandra  Driver = "cassandra"
	Redis      Driver = "redis"
	Oracle     Driver = "oracle"
)

var defaultPorts = map[Driver]int{
	MySQL:      3306,
	PostgreSQL: 5432,
	MSSQL:      1433,
	Redshift:   5439,
	Presto:     8080,
	Cassandra:  9042,
	Redis:      6379,
	Oracle:     1521,
	BigQuery:   443,
}

// JDBC describes a database connection. Driver-specific fields are only read by their driver.
type JDBC struct {
	Driver   Driver `mapstructure:"driver" toml:"driver"`
	Host     string `mapstructure:"host" toml:"host"`
	Database string `mapstructure:"database" toml:"database"`
	User     string `mapstructure:"user" toml:"user"`
	Password string `mapstructure:"password" toml:"password"`
	Port     int    `mapstructure:"port" toml:"port"`
	Schema   string `mapstructure:"schema" toml:"schema"`

	Project     string `mapstructure:"bigquery_project" toml:"bigquery_project"`
	Dataset     string `mapstructure:"bigquery_dataset" toml:"bigquery_dataset"`
	Catalog     string `mapstructure:"presto_catalog" toml:"presto_catalog"`
	Keyspace    string `mapstructure:"cassandra_keyspace" toml:"cassandra_keyspace"`
	Table       string `mapstructure:"cassandra_table" toml:"cassandra_table"`
	TNS         string `mapstructure:"oracle_tns" toml:"oracle_tns"`
	ServiceName string `mapstructure:"oracle_service_name" toml:"oracle_service_name"`
	SID         string `mapstructure:"oracle_sid" toml:"oracle_sid"`
}

func ensureDefaultJDBCValues(j *JDBC) {
	if len(j.Schema) == 0 {
		j.Schema = "public"
	}
	if j.Port == 0 {
		j.Port = defaultPorts[j.Driver]
	}
}

func required(field string, value string) error {
	if len(value) == 0 {
		return errors.ConnectionConfigError{Field: field}
	}
	return nil
}

// Validate checks that the fields the driver needs are set
func (j JDBC) Validate() error {
	switch j.Driver {
	case SQLite:
		return required("database", j.Database)
	case BigQuery:
		if err := required("bigquery_project", j.Project); err != nil {
			return err
		}
		return required("bigquery_dataset", j.Dataset)
	case Oracle:
		if len(j.TNS) > 0 {
			return nil
		}
		if err := required("host", j.Host); err != nil {
			return err
		}
		if len(j.ServiceName) == 0 && len(j.SID) == 0 {
			return errors.ConnectionConfigError{Field: "oracle_service_name", Reason: "one of oracle_tns, oracle_service_name or oracle_sid is required"}
		}
		return nil
	case Cassandra:
		if err := required("host", j.Host); err != nil {
			return err
		}
		return required("cassandra_keyspace", j.Keyspace)
	case Presto:
		if err := required("host", j.Host); err != nil {
			return err
		}
		return required("presto_catalog", j.Catalog)
	case Redis:
		return required("host", j.Host)
	case MySQL, PostgreSQL, MSSQL, Redshift:
		if err := required("host", j.Host); err != nil {
			return err
		}
		return required("database", j.Database)
	default:
		return errors.ConnectionConfigError{Field: "driver", Reason: fmt.Sprintf("%q is not a known driver", j.Driver)}
	}
}

// URL returns the JDBC URL of this database
func (j JDBC) URL() (string, error) {
	ensureDefaultJDBCValues(&j)
	if err := j.Validate(); err != nil {
		return "", err
	}
	hostPort := j.Host + ":" + strconv.Itoa(j.Port)
	switch j.Driver {
	case SQLite:
		if len(j.Host) > 0 {
			return "jdbc:sqlite:" + j.Host + "/" + j.Database, nil
		}
		return "jdbc:sqlite:" + j.Database, nil
	case MSSQL:
		return fmt.Sprintf("jdbc:sqlserver://%s;databaseName=%s", hostPort, j.Database), nil
	case BigQuery:
		host := j.Host
		if len(host) == 0 {
			host = "https://www.googleapis.com/bigquery/v2"
		}
		return fmt.Sprintf("jdbc:bigquery://%s:%d;ProjectId=%s;DefaultDataset=%s", host, j.Port, j.Project, j.Dataset), nil
	case Presto:
		return fmt.Sprintf("jdbc:presto://%s/%s/%s", hostPort, j.Catalog, j.Schema), nil
	case Cassandra:
		return fmt.Sprintf("jdbc:cassandra://%s/%s", hostPort, j.Keyspace), nil
	case Redis:
		return fmt.Sprintf("jdbc:redis://%s/%s", hostPort, j.Database), nil
	case Oracle:
		switch {
		case len(j.TNS) > 0:
			return "jdbc:oracle:thin:@" + j.TNS, nil
		case len(j.ServiceName) > 0:
			return fmt.Sprintf("jdbc:oracle:thin:@//%s/%s", hostPort, j.ServiceName), nil
		default:
			return fmt.Sprintf("jdbc:oracle:thin:@%s:%s", hostPort, j.SID), nil
		}
	default:
		return fmt.Sprintf("jdbc:%s://%s/%s", j.Driver, hostPort, j.Database), nil
	}
}

// DSN returns the database/sql driver name and data source name of this database.
// Only MySQL has a Go driver linked in.
func (j JDBC) DSN() (driverName string, dsn string, err error) {
	ensureDefaultJDBCValues(&j)
	if err := j.Validate(); err != nil {
		return "", "", err
	}
	if j.Driver != MySQL {
		return "", "", errors.UnsupportedOperationError{Operation: "dsn", Engine: string(j.Driver)}
	}
	cfg := mysql.NewConfig()
	cfg.User = j.User
	cfg.Passwd = j.Password
	cfg.Net = "tcp"
	cfg.Addr = j.Host + ":" + strconv.Itoa(j.Port)
	cfg.DBName = j.Database
	cfg.ParseTime = true
	return "mysql", cfg.FormatDSN(), nil
}

// Open opens a database/sql handle on this database
func (j JDBC) Open() (*sql.DB, error) {
	driverName, dsn, err := j.DSN()
	if err != nil {
		return nil, err
	}
	return sql.Open(driverName, dsn)
}

// TableQuery returns the query reading a whole table
func (j JDBC) TableQuery(table string) string {
	ensureDefaultJDBCValues(&j)
	if j.Driver == PostgreSQL || j.Driver == Redshift {
		return fmt.Sprintf("SELECT * FROM %s.%s", j.Schema, table)
	}
	return "SELECT * FROM " + table
}
