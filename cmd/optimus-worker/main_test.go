package main

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fs, "/worker.toml", []byte(`
host = "127.0.0.1"
port = 9000
shutdown_timeout = "3s"

[logging]
verbose = false
max_backups = 2
`), 0644))

	opts, err := loadOptions(fs, flags{config: "/worker.toml", port: 9100, verbose: true})
	require.Nil(t, err)
	require.Equal(t, "127.0.0.1", opts.Host)
	require.Equal(t, 9100, opts.Port)
	require.Equal(t, 3*time.Second, opts.ShutdownTimeout.Duration)
	require.True(t, opts.Logging.Verbose)
	require.Equal(t, 2, opts.Logging.MaxBackups)

	_, err = loadOptions(fs, flags{config: "/missing.toml"})
	require.NotNil(t, err)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := rootCommand(afero.NewMemMapFs())
	require.Nil(t, cmd.ParseFlags([]string{"--port", "7000", "--root", "/srv/data", "-v"}))
	port, err := cmd.Flags().GetInt("port")
	require.Nil(t, err)
	require.Equal(t, 7000, port)
	root, err := cmd.Flags().GetString("root")
	require.Nil(t, err)
	require.Equal(t, "/srv/data", root)

	cmd.SetArgs([]string{"unexpected"})
	require.NotNil(t, cmd.Execute())
}
