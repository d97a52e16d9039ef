// Package daskcudf implements the distributed GPU engine: dask partitioning over cudf buffers
package daskcudf

import (
	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/engines/cudf"
	"github.com/go-sif/optimus/engines/dask"
)

// New creates a partitioned Adapter whose partitions live in cudf buffers.
// Closing it releases the cudf lanes.
func New(opts dask.Options, gpuOpts cudf.Options) (*dask.Adapter, error) {
	inner, err := cudf.New(gpuOpts)
	if err != nil {
		return nil, err
	}
	opts.Engine = optimus.DaskCUDF
	opts.Inner = inner
	return dask.New(opts), nil
}
