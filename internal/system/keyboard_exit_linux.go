//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// StartExitOnKey watches Linux evdev devices under /dev/input/event* and
// invokes onExit once when key is pressed. Without input devices it logs and
// returns.
func StartExitOnKey(ctx context.Context, logger *log.Logger, key uint16, onExit func()) {
	if onExit == nil {
		return
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		logger.Info("no evdev devices found, exit key disabled")
		return
	}

	var once sync.Once
	triggerExit := func() {
		once.Do(func() {
			logger.Info("exit key pressed", "key", key)
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, key, triggerExit)
	}
}

func watchDevice(ctx context.Context, path string, tvSize int, key uint16, pressed func()) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		if scanKeyPress(buf[:n], tvSize, key) {
			pressed()
			return
		}
	}
}
