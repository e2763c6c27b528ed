// Package osutil inspects the host the server runs on.
package osutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/pbnjay/memory"
)

// cgroup v1 reports this instead of a limit when memory isn't restricted.
// cgroup v2 writes "max".
const unrestrictedV1Limit = 9223372036854771712

var cgroupLimitFiles = []string{
	"/sys/fs/cgroup/memory.max",
	"/sys/fs/cgroup/memory/memory.limit_in_bytes",
}

// GetTotalMemory returns the memory available to the process, preferring the
// container's cgroup limit over the host's physical memory
func GetTotalMemory() uint64 {
	for _, path := range cgroupLimitFiles {
		if limit, ok := readCgroupLimit(path); ok {
			return limit
		}
	}
	return memory.TotalMemory()
}

func readCgroupLimit(path string) (uint64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return parseCgroupLimit(string(raw))
}

func parseCgroupLimit(raw string) (uint64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "max" {
		return 0, false
	}

	limit, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || limit == 0 || limit == unrestrictedV1Limit {
		return 0, false
	}
	return limit, true
}
