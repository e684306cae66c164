// Command defid is a demo node for the four fixed-point DeFi engines in
// this module (weighted-pool AMM, StableSwap, lending, and liquidity
// mining), wired together over the in-memory adapters the way a real
// Osmosis node wires its keepers over the multistore.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
