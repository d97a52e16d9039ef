package session

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-sif/optimus"
	"github.com/go-sif/optimus/logging"
	"github.com/go-sif/optimus/remote"
	"github.com/spf13/afero"
)

// Duration is a time.Duration read from TOML strings such as "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText formats this Duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Options configures a Session
type Options struct {
	Engine           optimus.Engine  `toml:"engine"`
	Address          string          `toml:"address"`            // host:port of a worker. Sessions with an Address always run in actor mode.
	Remote           bool            `toml:"remote"`             // keep results resident in an actor and return handles on them
	Session          *Session        `toml:"-"`                  // reuse the worker connection of a ready Session
	NWorkers         int             `toml:"n_workers"`          // dask workers, or accelerators for cudf and dask_cudf
	ThreadsPerWorker int             `toml:"threads_per_worker"` // accepted for compatibility, engines size their own pools
	NPartitions      int             `toml:"n_partitions"`
	MemoryLimit      string          `toml:"memory_limit"`
	Devices          int             `toml:"devices"`
	LaneSize         int             `toml:"lane_size"`
	RPCTimeout       Duration        `toml:"rpc_timeout"`    // bound on the handshake and bootstrap
	ClientTimeout    Duration        `toml:"client_timeout"` // bound on waiting for every other Result
	Verbose          bool            `toml:"verbose"`
	Logging          *logging.Config `toml:"logging"` // replaces the process logger when set
	Fs               afero.Fs        `toml:"-"`       // filesystem read by the Loader, the OS filesystem by default
}

func ensureDefaultOptionsValues(opts *Options) {
	if len(opts.Engine) == 0 {
		opts.Engine = optimus.Pandas
	}
	if opts.RPCTimeout.Duration <= 0 {
		opts.RPCTimeout.Duration = 30 * time.Second
	}
	if opts.ClientTimeout.Duration <= 0 {
		opts.ClientTimeout.Duration = remote.DefaultTimeout
	}
	if opts.NWorkers == 0 && opts.Engine.IsDistributed() {
		opts.NWorkers = 1
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
}

// LoadOptions reads Options from a TOML file
func LoadOptions(fs afero.Fs, path string) (Options, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Options{}, err
	}
	var opts Options
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return Options{}, fmt.Errorf("invalid session options %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logging.Warn("Ignoring unknown session options %v in %s", undecoded, path)
	}
	if len(opts.Engine) > 0 {
		if _, err := optimus.ParseEngine(string(opts.Engine)); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// bootstrapOptions are the Options a worker needs to provision an engine
func (o Options) bootstrapOptions() map[string]interface{} {
	return map[string]interface{}{
		"n_workers":    o.NWorkers,
		"n_partitions": o.NPartitions,
		"devices":      o.Devices,
		"lane_size":    o.LaneSize,
		"memory_limit": o.MemoryLimit,
	}
}
