//go:build !linux

package system

import (
	"errors"

	"github.com/charmbracelet/log"
)

var errNoConsole = errors.New("virtual terminal control is only supported on linux")

type Console struct{}

func OpenConsole(*log.Logger) (*Console, error) { return nil, errNoConsole }

func (*Console) Graphics() error { return errNoConsole }
func (*Console) Text() error     { return errNoConsole }
func (*Console) Close() error    { return nil }
