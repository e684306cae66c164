// Package corectx provides the minimal request-scoped context every
// keeper method takes, the adapter-shaped stand-in for cosmos-sdk's
// sdk.Context named by spec §2's data-flow description: a logger, the
// current block height (BlockSource) and the current unix time
// (TimeSource). It deliberately carries nothing else — no multistore, no
// event manager, no gas meter — since the runtime those belong to is out
// of scope (spec §1).
package corectx

import (
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/bifrost-finance/defi-engine/adapters"
)

// Context is threaded through every keeper operation the way sdk.Context
// threads through an Osmosis keeper call.
type Context struct {
	logger tmlog.Logger
	blocks adapters.BlockSource
	clock  adapters.TimeSource
}

// New builds a Context from its three adapter dependencies.
func New(logger tmlog.Logger, blocks adapters.BlockSource, clock adapters.TimeSource) Context {
	return Context{logger: logger, blocks: blocks, clock: clock}
}

// Logger returns the structured logger, matching the ctx.Logger() idiom
// cosmos-sdk keepers use for every state transition.
func (c Context) Logger() tmlog.Logger { return c.logger }

// BlockHeight returns the current, monotone strictly-increasing block
// height (spec §6, BlockSource).
func (c Context) BlockHeight() int64 { return c.blocks.BlockHeight() }

// UnixTime returns the current, monotone non-decreasing unix-seconds clock
// (spec §6, TimeSource).
func (c Context) UnixTime() int64 { return c.clock.UnixTime() }

// With returns a Context whose logger carries the given structured
// key/value pairs, the way sdk.Context.Logger().With(...) is used at
// keeper call sites to tag a log line with "module", "pool_id", etc.
func (c Context) With(keyvals ...interface{}) Context {
	c.logger = c.logger.With(keyvals...)
	return c
}
