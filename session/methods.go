package session

import (
	"context"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/dataframe"
	"github.com/go-sif/optimus/io/load"
	"github.com/go-sif/optimus/meta"
)

var handlerMethods = map[string]entry{
	"engine": {fn: func(ctx context.Context, h *Handler, _ interface{}, kwargs map[string]interface{}) (interface{}, error) {
		return string(h.handle.Engine), decodeArgs(kwargs, &struct{}{})
	}},
	"actions": {fn: func(ctx context.Context, h *Handler, _ interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var res []string
		for _, a := range optimus.Actions() {
			if h.adapter.Supports(a) {
				res = append(res, string(a))
			}
		}
		return res, decodeArgs(kwargs, &struct{}{})
	}},
}

var creatorMethods = map[string]entry{
	"dataframe": {params: []string{"dict", "cols"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Dict map[string][]interface{} `mapstructure:"dict"`
			Cols []string                 `mapstructure:"cols"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Creator).DataFrame(ctx, args.Dict, args.Cols...)
	}},
	"records": {params: []string{"cols", "rows"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols []optimus.ColumnDescriptor `mapstructure:"cols"`
			Rows [][]interface{}            `mapstructure:"rows"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Creator).Schema(ctx, args.Cols, args.Rows)
	}},
}

var loaderMethods = map[string]entry{
	"csv": {params: []string{"path"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path            string `mapstructure:"path"`
			load.CSVOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).CSV(ctx, args.Path, args.CSVOptions)
	}},
	"tsv": {params: []string{"path"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path            string `mapstructure:"path"`
			load.CSVOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).TSV(ctx, args.Path, args.CSVOptions)
	}},
	"json": {params: []string{"path"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path             string `mapstructure:"path"`
			load.JSONOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).JSON(ctx, args.Path, args.JSONOptions)
	}},
	"parquet": {params: []string{"path"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path                string `mapstructure:"path"`
			load.ParquetOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).Parquet(ctx, args.Path, args.ParquetOptions)
	}},
	"zip": {params: []string{"path", "member", "format"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path   string      `mapstructure:"path"`
			Member string      `mapstructure:"member"`
			Format load.Format `mapstructure:"format"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).ZIP(ctx, args.Path, args.Member, args.Format, load.FileOptions{})
	}},
	"file": {params: []string{"path", "format"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path             string      `mapstructure:"path"`
			Format           load.Format `mapstructure:"format"`
			load.FileOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return target.(*Loader).File(ctx, args.Path, args.Format, args.FileOptions)
	}},
	"avro":  {params: []string{"path"}, fn: unsupportedLoad(load.FormatAvro)},
	"excel": {params: []string{"path"}, fn: unsupportedLoad(load.FormatExcel)},
	"orc":   {params: []string{"path"}, fn: unsupportedLoad(load.FormatORC)},
}

func unsupportedLoad(format load.Format) method {
	return func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		return target.(*Loader).unsupported(string(format))
	}
}

type colsArgs struct {
	Cols []string `mapstructure:"cols"`
}

// colsTransform lifts a Cols method taking only column names into a method table entry
func colsTransform(fn func(c *dataframe.Cols, ctx context.Context, cols ...string) (*dataframe.DataFrame, error)) entry {
	return entry{params: []string{"cols"}, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		var args colsArgs
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return fn(target.(*dataframe.DataFrame).Cols(), ctx, args.Cols...)
	}}
}

type frameMethod func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error)

func onFrame(params []string, fn frameMethod) entry {
	return entry{params: params, fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		return fn(ctx, h, target.(*dataframe.DataFrame), kwargs)
	}}
}

var dataframeMethods = map[string]entry{
	"cols.lower":                colsTransform((*dataframe.Cols).Lower),
	"cols.upper":                colsTransform((*dataframe.Cols).Upper),
	"cols.proper":               colsTransform((*dataframe.Cols).Proper),
	"cols.trim":                 colsTransform((*dataframe.Cols).Trim),
	"cols.reverse":              colsTransform((*dataframe.Cols).Reverse),
	"cols.remove_accents":       colsTransform((*dataframe.Cols).RemoveAccents),
	"cols.remove_special_chars": colsTransform((*dataframe.Cols).RemoveSpecialChars),
	"cols.remove_white_spaces":  colsTransform((*dataframe.Cols).RemoveWhiteSpaces),
	"cols.to_float":             colsTransform((*dataframe.Cols).ToFloat),
	"cols.to_integer":           colsTransform((*dataframe.Cols).ToInteger),
	"cols.to_string":            colsTransform((*dataframe.Cols).ToString),
	"cols.to_boolean":           colsTransform((*dataframe.Cols).ToBoolean),
	"cols.is_na":                colsTransform((*dataframe.Cols).IsNA),
	"cols.min_max_scaler":       colsTransform((*dataframe.Cols).MinMaxScaler),
	"cols.max_abs_scaler":       colsTransform((*dataframe.Cols).MaxAbsScaler),
	"cols.standard_scaler":      colsTransform((*dataframe.Cols).StandardScaler),
	"cols.z_score":              colsTransform((*dataframe.Cols).ZScore),
	"cols.select":               colsTransform((*dataframe.Cols).Select),
	"cols.keep":                 colsTransform((*dataframe.Cols).Keep),
	"cols.drop":                 colsTransform((*dataframe.Cols).Drop),
	"cols.profile":              colsTransform((*dataframe.Cols).Profile),
	"cols.abs":                  colsTransform((*dataframe.Cols).Abs),
	"cols.exp":                  colsTransform((*dataframe.Cols).Exp),
	"cols.sqrt":                 colsTransform((*dataframe.Cols).Sqrt),
	"cols.ln":                   colsTransform((*dataframe.Cols).Ln),
	"cols.log":                  colsTransform((*dataframe.Cols).Log),
	"cols.ceil":                 colsTransform((*dataframe.Cols).Ceil),
	"cols.floor":                colsTransform((*dataframe.Cols).Floor),
	"cols.sin":                  colsTransform((*dataframe.Cols).Sin),
	"cols.cos":                  colsTransform((*dataframe.Cols).Cos),
	"cols.tan":                  colsTransform((*dataframe.Cols).Tan),
	"cols.asin":                 colsTransform((*dataframe.Cols).Asin),
	"cols.acos":                 colsTransform((*dataframe.Cols).Acos),
	"cols.atan":                 colsTransform((*dataframe.Cols).Atan),
	"cols.sinh":                 colsTransform((*dataframe.Cols).Sinh),
	"cols.cosh":                 colsTransform((*dataframe.Cols).Cosh),
	"cols.tanh":                 colsTransform((*dataframe.Cols).Tanh),
	"cols.asinh":                colsTransform((*dataframe.Cols).Asinh),
	"cols.acosh":                colsTransform((*dataframe.Cols).Acosh),
	"cols.atanh":                colsTransform((*dataframe.Cols).Atanh),
	"cols.radians":              colsTransform((*dataframe.Cols).Radians),
	"cols.degrees":              colsTransform((*dataframe.Cols).Degrees),
	"cols.names": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		return df.Cols().Names(), decodeArgs(kwargs, &struct{}{})
	}),
	"cols.dtypes": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		res := make(map[string]interface{})
		for name, t := range df.Cols().DataTypes() {
			res[name] = string(t)
		}
		return res, decodeArgs(kwargs, &struct{}{})
	}),
	"cols.rename": onFrame([]string{"col", "new_name"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col     string `mapstructure:"col"`
			NewName string `mapstructure:"new_name"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Rename(ctx, args.Col, args.NewName)
	}),
	"cols.copy": onFrame([]string{"col", "output_col"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col       string `mapstructure:"col"`
			OutputCol string `mapstructure:"output_col"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Copy(ctx, args.Col, args.OutputCol)
	}),
	"cols.set": onFrame([]string{"col", "value"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col   string      `mapstructure:"col"`
			Value interface{} `mapstructure:"value"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Set(ctx, args.Col, args.Value)
	}),
	"cols.cast": onFrame([]string{"cols", "dtype"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols                []string         `mapstructure:"cols"`
			DType               optimus.DataType `mapstructure:"dtype"`
			optimus.CastOptions `mapstructure:",squash"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Cast(ctx, args.DType, args.CastOptions, args.Cols...)
	}),
	"cols.replace": onFrame([]string{"cols", "search", "replace_by", "search_by"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols      []string `mapstructure:"cols"`
			Search    []string `mapstructure:"search"`
			ReplaceBy []string `mapstructure:"replace_by"`
			SearchBy  string   `mapstructure:"search_by"` // chars, words or full
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		replaceBy := ""
		if len(args.ReplaceBy) > 0 {
			replaceBy = args.ReplaceBy[0]
		}
		switch args.SearchBy {
		case "words":
			return df.Cols().ReplaceWords(ctx, args.Search, replaceBy, args.Cols...)
		case "full":
			return df.Cols().ReplaceFull(ctx, args.Search, replaceBy, args.Cols...)
		}
		return df.Cols().ReplaceChars(ctx, args.Search, args.ReplaceBy, args.Cols...)
	}),
	"cols.fill_na": onFrame([]string{"cols", "value"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols  []string    `mapstructure:"cols"`
			Value interface{} `mapstructure:"value"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().FillNA(ctx, args.Value, args.Cols...)
	}),
	"cols.impute": onFrame([]string{"cols", "strategy", "fill_value"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols      []string                 `mapstructure:"cols"`
			Strategy  dataframe.ImputeStrategy `mapstructure:"strategy"`
			FillValue interface{}              `mapstructure:"fill_value"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		if len(args.Strategy) == 0 {
			args.Strategy = dataframe.ImputeMean
		}
		return df.Cols().Impute(ctx, args.Strategy, args.FillValue, args.Cols...)
	}),
	"cols.clip": onFrame([]string{"cols", "lower_bound", "upper_bound"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols  []string `mapstructure:"cols"`
			Lower float64  `mapstructure:"lower_bound"`
			Upper float64  `mapstructure:"upper_bound"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Clip(ctx, args.Lower, args.Upper, args.Cols...)
	}),
	"cols.cut": onFrame([]string{"cols", "bins"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols []string `mapstructure:"cols"`
			Bins int      `mapstructure:"bins"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().Cut(ctx, args.Bins, args.Cols...)
	}),
	"cols.date_format": onFrame([]string{"cols", "current_format", "output_format"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols          []string `mapstructure:"cols"`
			CurrentFormat string   `mapstructure:"current_format"`
			OutputFormat  string   `mapstructure:"output_format"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().DateFormat(ctx, args.CurrentFormat, args.OutputFormat, args.Cols...)
	}),
	"cols.years_between": onFrame([]string{"cols", "date_format"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Cols       []string `mapstructure:"cols"`
			DateFormat string   `mapstructure:"date_format"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().YearsBetween(ctx, args.DateFormat, args.Cols...)
	}),
	"cols.summary": onFrame([]string{"col"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col string `mapstructure:"col"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		s, err := df.Cols().Summary(ctx, args.Col)
		if err != nil {
			return nil, err
		}
		return s.ToMap(), nil
	}),
	"cols.count_zeros": onFrame([]string{"col"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col string `mapstructure:"col"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().CountZeros(ctx, args.Col)
	}),
	"cols.count_uniques": onFrame([]string{"col"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col string `mapstructure:"col"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Cols().CountUniques(ctx, args.Col)
	}),
	"column": onFrame([]string{"col"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col string `mapstructure:"col"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Column(ctx, args.Col)
	}),
	"rows.count": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		if err := decodeArgs(kwargs, &struct{}{}); err != nil {
			return nil, err
		}
		return df.Rows().Count(ctx)
	}),
	"rows.limit": onFrame([]string{"count"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Count int `mapstructure:"count"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().Limit(ctx, args.Count)
	}),
	"rows.slice": onFrame([]string{"lower_bound", "upper_bound"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Lower int `mapstructure:"lower_bound"`
			Upper int `mapstructure:"upper_bound"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().Slice(ctx, args.Lower, args.Upper)
	}),
	"rows.sort": onFrame([]string{"keys"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Keys []optimus.SortKey `mapstructure:"keys"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().Sort(ctx, args.Keys...)
	}),
	"rows.between": onFrame([]string{"col", "lower_bound", "upper_bound", "equal"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Col   string      `mapstructure:"col"`
			Lower interface{} `mapstructure:"lower_bound"`
			Upper interface{} `mapstructure:"upper_bound"`
			Equal bool        `mapstructure:"equal"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().Between(ctx, args.Col, args.Lower, args.Upper, args.Equal)
	}),
	"rows.append": onFrame([]string{"rows"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Rows [][]interface{} `mapstructure:"rows"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().Append(ctx, args.Rows)
	}),
	"rows.drop_duplicates": onFrame([]string{"subset"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Subset []string `mapstructure:"subset"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.Rows().DropDuplicates(ctx, args.Subset...)
	}),
	"to_dict": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		if err := decodeArgs(kwargs, &struct{}{}); err != nil {
			return nil, err
		}
		return df.ToDict(ctx)
	}),
	"to_column_dict": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		if err := decodeArgs(kwargs, &struct{}{}); err != nil {
			return nil, err
		}
		return df.ToColumnDict(ctx)
	}),
	"to_optimus_pandas": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		if err := decodeArgs(kwargs, &struct{}{}); err != nil {
			return nil, err
		}
		return df.ToOptimusPandas(ctx)
	}),
	"table": onFrame([]string{"limit"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Limit int `mapstructure:"limit"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		if args.Limit == 0 {
			args.Limit = 10
		}
		return df.Table(ctx, args.Limit)
	}),
	"meta": onFrame(nil, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		return meta.ToMap(df.Meta()), decodeArgs(kwargs, &struct{}{})
	}),
	"meta.set": onFrame([]string{"key", "value"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Key   string      `mapstructure:"key"`
			Value interface{} `mapstructure:"value"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return df.SetMeta(args.Key, args.Value), nil
	}),
	"save.csv": onFrame([]string{"path"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path      string `mapstructure:"path"`
			Sep       string `mapstructure:"sep"`
			Header    *bool  `mapstructure:"header"`
			NullValue string `mapstructure:"null_value"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		opts := dataframe.CSVOptions{Header: args.Header, NullValue: args.NullValue}
		for _, r := range args.Sep {
			opts.Sep = r
			break
		}
		return nil, df.Save().CSV(ctx, h.fs, args.Path, opts)
	}),
	"save.json": onFrame([]string{"path", "lines"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path  string `mapstructure:"path"`
			Lines bool   `mapstructure:"lines"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return nil, df.Save().JSON(ctx, h.fs, args.Path, args.Lines)
	}),
	"save.parquet": onFrame([]string{"path"}, func(ctx context.Context, h *Handler, df *dataframe.DataFrame, kwargs map[string]interface{}) (interface{}, error) {
		var args struct {
			Path string `mapstructure:"path"`
		}
		if err := decodeArgs(kwargs, &args); err != nil {
			return nil, err
		}
		return nil, df.Save().Parquet(ctx, h.fs, args.Path)
	}),
}

var columnMethods = map[string]entry{
	"len": {fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		return target.(optimus.Column).Len(), decodeArgs(kwargs, &struct{}{})
	}},
	"dtype": {fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		return string(target.(optimus.Column).Type()), decodeArgs(kwargs, &struct{}{})
	}},
	"values": {fn: func(ctx context.Context, h *Handler, target interface{}, kwargs map[string]interface{}) (interface{}, error) {
		if err := decodeArgs(kwargs, &struct{}{}); err != nil {
			return nil, err
		}
		return h.adapter.Values(ctx, target.(optimus.Column))
	}},
}
