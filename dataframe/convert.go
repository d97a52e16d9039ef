package dataframe

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/pandas"
	"github.com/go-sif/optimus/internal/kernel"
	"github.com/olekukonko/tablewriter"
)

// ToPandas materializes this DataFrame as a native pandas Frame
func (df *DataFrame) ToPandas(ctx context.Context) (*pandas.Frame, error) {
	if f, ok := df.data.(*pandas.Frame); ok {
		return f, nil
	}
	rows, err := df.Records(ctx)
	if err != nil {
		return nil, err
	}
	return pandas.FrameFromRecords(df.Schema(), rows)
}

// ToOptimusPandas materializes this DataFrame onto a fresh pandas Adapter, keeping its metadata
func (df *DataFrame) ToOptimusPandas(ctx context.Context) (*DataFrame, error) {
	return df.ToOptimusEngine(ctx, pandas.New(), optimus.EngineHandle{Engine: optimus.Pandas, SessionID: df.handle.SessionID})
}

// ToOptimusCUDF materializes this DataFrame onto a cudf Adapter
func (df *DataFrame) ToOptimusCUDF(ctx context.Context, adapter optimus.Adapter) (*DataFrame, error) {
	if adapter.Engine() != optimus.CUDF {
		return nil, fmt.Errorf("adapter for engine %s cannot hold a cudf DataFrame", adapter.Engine())
	}
	return df.ToOptimusEngine(ctx, adapter, optimus.EngineHandle{Engine: optimus.CUDF, SessionID: df.handle.SessionID})
}

// ToOptimusEngine materializes this DataFrame onto another Adapter, keeping its metadata
func (df *DataFrame) ToOptimusEngine(ctx context.Context, adapter optimus.Adapter, handle optimus.EngineHandle) (*DataFrame, error) {
	rows, err := df.Records(ctx)
	if err != nil {
		return nil, err
	}
	data, err := adapter.FromRecords(ctx, df.Schema(), rows)
	if err != nil {
		return nil, err
	}
	return New(adapter, handle, data, df.meta)
}

// ToDict materializes this DataFrame as one map per row
func (df *DataFrame) ToDict(ctx context.Context) ([]map[string]interface{}, error) {
	rows, err := df.Records(ctx)
	if err != nil {
		return nil, err
	}
	names := df.Columns()
	res := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		record := make(map[string]interface{}, len(names))
		for j, name := range names {
			record[name] = row[j]
		}
		res[i] = record
	}
	return res, nil
}

// ToColumnDict materializes this DataFrame as one slice of values per column
func (df *DataFrame) ToColumnDict(ctx context.Context) (map[string][]interface{}, error) {
	res := make(map[string][]interface{})
	for _, name := range df.Columns() {
		values, err := df.Values(ctx, name)
		if err != nil {
			return nil, err
		}
		res[name] = values
	}
	return res, nil
}

// Table renders up to limit rows as a text table. A limit <= 0 renders every row.
func (df *DataFrame) Table(ctx context.Context, limit int) (string, error) {
	view := df
	if limit > 0 {
		data, err := df.adapter.Slice(ctx, df.data, 0, limit)
		if err != nil {
			return "", err
		}
		view = &DataFrame{data: data, adapter: df.adapter, handle: df.handle, meta: df.meta}
	}
	rows, err := view.Records(ctx)
	if err != nil {
		return "", err
	}
	total, err := df.adapter.NumRows(ctx, df.data)
	if err != nil {
		return "", err
	}
	nullDisplay := df.Constants().NullDisplay

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	header := make([]string, 0, df.Schema().NumColumns())
	df.Schema().ForEachColumn(func(idx int, desc optimus.ColumnDescriptor) error {
		header = append(header, fmt.Sprintf("%s (%s)", desc.Name, desc.Type))
		return nil
	})
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if kernel.IsNull(v) {
				cells[i] = nullDisplay
				continue
			}
			cells[i], _ = kernel.ToString(v)
		}
		table.Append(cells)
	}
	table.SetCaption(true, fmt.Sprintf("Viewing %d of %d rows / %d columns", len(rows), total, len(header)))
	table.Render()
	return sb.String(), nil
}
