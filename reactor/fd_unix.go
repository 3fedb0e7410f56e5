//go:build linux || darwin

package reactor

import "golang.org/x/sys/unix"

func closeFD(fd int) error {
	return unix.Close(fd)
}

func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// selfPipe creates a non-blocking pipe used to wake a blocked poll syscall;
// it is written by the signal-forwarding goroutines started by
// addSignalWatcher and by Stop.
func selfPipe() (r, w int, err error) {
	var fds [2]int
	if err = unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
