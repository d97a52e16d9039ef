package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/go-sif/optimus/internal/worker"
	"github.com/go-sif/optimus/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type flags struct {
	config  string
	host    string
	port    int
	root    string
	logFile string
	verbose bool
}

func loadOptions(fs afero.Fs, f flags) (worker.Options, error) {
	var opts worker.Options
	if len(f.config) > 0 {
		data, err := afero.ReadFile(fs, f.config)
		if err != nil {
			return opts, err
		}
		if _, err := toml.Decode(string(data), &opts); err != nil {
			return opts, fmt.Errorf("invalid worker config %s: %w", f.config, err)
		}
	}
	// flags override the config file
	if len(f.host) > 0 {
		opts.Host = f.host
	}
	if f.port > 0 {
		opts.Port = f.port
	}
	if len(f.root) > 0 {
		opts.Root = f.root
	}
	if len(f.logFile) > 0 {
		opts.Logging.File = f.logFile
	}
	if f.verbose {
		opts.Logging.Verbose = true
	}
	return opts, nil
}

func rootCommand(fs afero.Fs) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "optimus-worker",
		Short:        "Host remote dataframe actors",
		Long:         "Serve the optimus actor service, creating one engine session per bootstrapped actor",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(fs, f)
			if err != nil {
				return err
			}
			logging.Configure(opts.Logging)
			w := worker.New(opts, fs)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-stop
				if err := w.GracefulStop(); err != nil {
					logging.Error(err, "Error stopping worker")
				}
			}()
			logging.Warn("Starting worker on %s", w.Options().Address())
			return w.ListenAndServe()
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML file with worker options")
	cmd.Flags().StringVar(&f.host, "host", "", "interface to listen on (default 0.0.0.0)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "port to listen on (default 8786)")
	cmd.Flags().StringVar(&f.root, "root", "", "directory loaders and sinks are confined to")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "rotate logs into this file instead of stderr")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log every call")
	return cmd
}

func main() {
	if err := rootCommand(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
