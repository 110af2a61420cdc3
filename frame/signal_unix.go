//go:build unix

package frame

import "golang.org/x/sys/unix"

// SendSignal delivers sig to the process or process group identified by
// pid (negative pid targets the group, matching kill(2) convention),
// mirroring the teacher's POSIX job-control build-tag split
// (_examples/mvdan-sh/interp/os_unix.go) adapted to frame's
// host-capability boundary.
func SendSignal(pid int, sig int) error {
	return unix.Kill(pid, unix.Signal(sig))
}
