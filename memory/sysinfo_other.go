//go:build !linux

package memory

import "errors"

func sysinfoMemory(cause error) (uint64, uint64, error) {
	if cause != nil {
		return 0, 0, cause
	}
	return 0, 0, errors.New("system memory unavailable")
}
