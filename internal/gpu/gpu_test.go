package gpu

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
)

func TestCountIDs(t *testing.T) {
	require.Equal(t, 3, countIDs("0,1,2"))
	require.Equal(t, 0, countIDs(""))
	require.Equal(t, 1, countIDs("0,-1,2"))
}

func TestVisibleDevicesEnv(t *testing.T) {
	stubs := gostub.New()
	defer stubs.Reset()
	stubs.SetEnv(VisibleDevicesEnv, "0, 1")
	require.Equal(t, 2, deviceCount())
}

func TestClampWorkers(t *testing.T) {
	stubs := gostub.StubFunc(&DeviceCount, 3)
	defer stubs.Reset()

	workers, clamped := ClampWorkers(8)
	require.Equal(t, 3, workers)
	require.True(t, clamped)

	workers, clamped = ClampWorkers(2)
	require.Equal(t, 2, workers)
	require.False(t, clamped)
}
