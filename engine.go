package optimus

import "fmt"

// Engine names one interchangeable backend computation library
type Engine string

const (
	// Pandas is the local in-memory engine
	Pandas Engine = "pandas"
	// Dask is the distributed engine
	Dask Engine = "dask"
	// CUDF is the GPU engine
	CUDF Engine = "cudf"
	// DaskCUDF is the distributed GPU engine
	DaskCUDF Engine = "dask_cudf"
	// Ibis is the columnar-query engine
	Ibis Engine = "ibis"
)

// Engines lists every supported Engine
func Engines() []Engine {
	return []Engine{Pandas, Dask, CUDF, DaskCUDF, Ibis}
}

// ParseEngine resolves an Engine from its name
func ParseEngine(name string) (Engine, error) {
	for _, e := range Engines() {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("%s is not a known engine", name)
}

// IsGPU returns true iff this engine keeps data on accelerators
func (e Engine) IsGPU() bool {
	return e == CUDF || e == DaskCUDF
}

// IsDistributed returns true iff this engine partitions data across workers
func (e Engine) IsDistributed() bool {
	return e == Dask || e == DaskCUDF
}

// EngineHandle identifies which Adapter and which session a Table belongs to
type EngineHandle struct {
	Engine    Engine
	SessionID string // empty for tables detached from any session, e.g. after a conversion
}

// String returns a textual representation of this EngineHandle
func (h EngineHandle) String() string {
	if len(h.SessionID) == 0 {
		return string(h.Engine)
	}
	return fmt.Sprintf("%s@%s", h.Engine, h.SessionID)
}
