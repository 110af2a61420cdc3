//go:build !unix

package frame

import "errors"

// SendSignal has no portable implementation outside POSIX platforms,
// mirroring the teacher's non-unix build-tag fallback
// (_examples/mvdan-sh/interp/os_notunix.go).
func SendSignal(pid int, sig int) error {
	return errors.New("frame: signal delivery is not supported on this platform")
}
