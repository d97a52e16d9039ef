package load

import (
	"context"
	"database/sql"
	"reflect"
	"strings"
	"time"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/go-sif/optimus/schema"
)

// Querier runs queries. It is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func sqlType(ct *sql.ColumnType) optimus.DataType {
	name := strings.ToUpper(ct.DatabaseTypeName())
	switch {
	case strings.HasPrefix(name, "INT"), strings.HasSuffix(name, "INT"):
		return optimus.Int
	case strings.Contains(name, "DEC"), strings.Contains(name, "NUMERIC"), strings.Contains(name, "FLOAT"),
		strings.Contains(name, "DOUBLE"), strings.Contains(name, "REAL"):
		return optimus.Decimal
	case strings.Contains(name, "BOOL"), name == "BIT":
		return optimus.Boolean
	case strings.Contains(name, "DATE"), strings.Contains(name, "TIME"):
		return optimus.Datetime
	case strings.Contains(name, "JSON"):
		return optimus.Object
	}
	if t := ct.ScanType(); t != nil {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return optimus.Int
		case reflect.Float32, reflect.Float64:
			return optimus.Decimal
		case reflect.Bool:
			return optimus.Boolean
		}
		if t == reflect.TypeOf(time.Time{}) {
			return optimus.Datetime
		}
	}
	return optimus.String
}

// SQL runs a query and reads its result set
func SQL(ctx context.Context, db Querier, query string, args ...interface{}) (Records, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Records{}, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return Records{}, err
	}
	descs := make([]optimus.ColumnDescriptor, len(types))
	for i, ct := range types {
		nullable, ok := ct.Nullable()
		descs[i] = optimus.ColumnDescriptor{Name: ct.Name(), Type: sqlType(ct), Nullable: nullable || !ok}
	}
	s, err := schema.CreateSchema(descs...)
	if err != nil {
		return Records{}, err
	}

	res := Records{Schema: s}
	for rows.Next() {
		values := make([]interface{}, len(descs))
		ptrs := make([]interface{}, len(descs))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Records{}, err
		}
		for i, v := range values {
			values[i] = sqlValue(v, descs[i].Type)
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return Records{}, err
	}
	return res, nil
}

func sqlValue(v interface{}, t optimus.DataType) interface{} {
	switch typed := v.(type) {
	case nil:
		return nil
	case []byte:
		v = string(typed)
	case time.Time:
		return typed
	}
	return kernel.Normalize(v, t)
}
