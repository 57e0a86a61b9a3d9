//go:build linux

package system

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// Console is the active virtual terminal. In graphics mode the kernel stops
// drawing the text console and cursor over the framebuffer.
type Console struct {
	fd     int
	path   string
	logger *log.Logger
}

// OpenConsole opens the active VT, preferring /dev/tty over /dev/tty0.
func OpenConsole(logger *log.Logger) (*Console, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var errs []error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDWR, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", p, err))
			continue
		}
		return &Console{fd: fd, path: p, logger: logger.With("tty", p)}, nil
	}
	return nil, errors.Join(errs...)
}

// Graphics switches to KD_GRAPHICS and hides the cursor.
func (c *Console) Graphics() error {
	if err := unix.IoctlSetInt(c.fd, kdSetMode, kdGraphics); err != nil {
		return fmt.Errorf("KD_GRAPHICS on %s: %w", c.path, err)
	}
	c.write("\x1b[?25l")
	c.logger.Debug("console in graphics mode")
	return nil
}

// Text restores KD_TEXT and shows the cursor.
func (c *Console) Text() error {
	if err := unix.IoctlSetInt(c.fd, kdSetMode, kdText); err != nil {
		return fmt.Errorf("KD_TEXT on %s: %w", c.path, err)
	}
	c.write("\x1b[?25h")
	c.logger.Debug("console in text mode")
	return nil
}

// Close restores text mode and releases the terminal.
func (c *Console) Close() error {
	err := c.Text()
	return errors.Join(err, unix.Close(c.fd))
}

func (c *Console) write(s string) {
	if _, err := unix.Write(c.fd, []byte(s)); err != nil {
		c.logger.Warn("write to console failed", "err", err)
	}
}
