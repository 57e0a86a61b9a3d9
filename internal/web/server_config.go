package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "PANELKIT_LISTEN"
	EnvDevMode    = "PANELKIT_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The listen address defaults to the --listen flag; the environment
// overrides it.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
