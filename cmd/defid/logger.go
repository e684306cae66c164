package main

import (
	"fmt"
	"os"

	tmlog "github.com/tendermint/tendermint/libs/log"
)

// newLogger builds the tmlog.Logger every corectx.Context is threaded
// with, filtered to the level the operator requested on the command
// line the same way a tendermint node's own --log_level flag works.
func newLogger(level string) (tmlog.Logger, error) {
	base := tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))
	if level == "" {
		return base, nil
	}
	opt, err := tmlog.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	return tmlog.NewFilter(base, opt), nil
}
