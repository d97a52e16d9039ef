// Package engines builds the Adapter for each supported Engine
package engines

import (
	"fmt"

	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/cudf"
	"github.com/go-sif/optimus/engines/dask"
	"github.com/go-sif/optimus/engines/daskcudf"
	"github.com/go-sif/optimus/engines/ibis"
	"github.com/go-sif/optimus/engines/pandas"
)

// Options configures the Adapter built by New
type Options struct {
	NWorkers    int `toml:"n_workers" mapstructure:"n_workers"`
	NPartitions int `toml:"n_partitions" mapstructure:"n_partitions"`
	Devices     int `toml:"devices" mapstructure:"devices"`
	LaneSize    int `toml:"lane_size" mapstructure:"lane_size"`
}

// New creates the Adapter for an Engine. Adapters implementing optimus.Closer must be closed.
func New(kind optimus.Engine, opts Options) (optimus.Adapter, error) {
	switch kind {
	case optimus.Pandas:
		return pandas.New(), nil
	case optimus.Dask:
		return dask.New(dask.Options{NWorkers: opts.NWorkers, NPartitions: opts.NPartitions}), nil
	case optimus.CUDF:
		return cudf.New(cudf.Options{Devices: opts.Devices, LaneSize: opts.LaneSize})
	case optimus.DaskCUDF:
		return daskcudf.New(
			dask.Options{NWorkers: opts.NWorkers, NPartitions: opts.NPartitions},
			cudf.Options{Devices: opts.Devices, LaneSize: opts.LaneSize},
		)
	case optimus.Ibis:
		return ibis.New(), nil
	default:
		return nil, fmt.Errorf("%s is not a known engine", kind)
	}
}
