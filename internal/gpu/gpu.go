// Package gpu discovers the accelerators visible to this process
package gpu

import (
	"os"
	"path/filepath"
	"strings"
)

// VisibleDevicesEnv restricts the visible accelerators, as a comma-separated list of ids
const VisibleDevicesEnv = "CUDA_VISIBLE_DEVICES"

// DeviceCount returns the number of visible accelerators. It may be stubbed in tests.
var DeviceCount = deviceCount

func deviceCount() int {
	if ids, ok := os.LookupEnv(VisibleDevicesEnv); ok {
		return countIDs(ids)
	}
	matches, err := filepath.Glob("/dev/nvidia[0-9]*")
	if err != nil {
		return 0
	}
	return len(matches)
}

func countIDs(ids string) int {
	n := 0
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if len(id) == 0 || strings.HasPrefix(id, "-") {
			// an invalid id hides every device after it
			break
		}
		n++
	}
	return n
}

// ClampWorkers bounds a requested worker count by the number of visible accelerators.
// clamped is true iff the requested count was reduced.
func ClampWorkers(requested int) (workers int, clamped bool) {
	available := DeviceCount()
	if requested > available {
		return available, true
	}
	return requested, false
}
