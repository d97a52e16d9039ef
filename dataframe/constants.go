package dataframe

import (
	"math"

	"github.com/go-sif/optimus"
)

var nullDisplay = map[optimus.Engine]string{
	optimus.Pandas:   "None",
	optimus.Dask:     "None",
	optimus.CUDF:     "<NA>",
	optimus.DaskCUDF: "<NA>",
	optimus.Ibis:     "NULL",
}

// ConstantsFor returns the sentinel values of an engine
func ConstantsFor(e optimus.Engine) Constants {
	display, ok := nullDisplay[e]
	if !ok {
		display = "None"
	}
	return Constants{Null: nil, NullDisplay: display, NaN: math.NaN()}
}
