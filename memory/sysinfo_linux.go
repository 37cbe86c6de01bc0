package memory

import (
	"golang.org/x/sys/unix"
)

// sysinfoMemory is the syscall-level fallback when gopsutil cannot answer.
func sysinfoMemory(cause error) (uint64, uint64, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		if cause != nil {
			return 0, 0, cause
		}
		return 0, 0, err
	}

	unit := uint64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(si.Totalram) * unit, uint64(si.Freeram) * unit, nil
}
