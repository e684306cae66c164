package keeper

import (
	"math/big"
	"strconv"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
)

// intToFloat converts an sdk.Int to a float64 for gauge display without
// risking Int64()'s overflow panic on balances beyond int64 range.
func intToFloat(v sdk.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// swapMetrics tracks the same class of operational counters as
// weightedpool's metrics, scoped to the StableSwap invariant (spec §2's
// ambient-stack note).
type swapMetrics struct {
	poolsCreated prometheus.Counter
	mintsTotal   *prometheus.CounterVec
	swapsTotal   *prometheus.CounterVec
	redeemsTotal *prometheus.CounterVec
	totalSupply  *prometheus.GaugeVec
}

var (
	swapMetricsOnce sync.Once
	swapMetricsInst *swapMetrics
)

func metrics() *swapMetrics {
	swapMetricsOnce.Do(func() {
		swapMetricsInst = &swapMetrics{
			poolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "stableswap_pools_created_total",
				Help: "Count of stableswap pools created.",
			}),
			mintsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stableswap_mints_total",
				Help: "Count of mint operations by pool id.",
			}, []string{"pool_id"}),
			swapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stableswap_swaps_total",
				Help: "Count of swap operations by pool id.",
			}, []string{"pool_id"}),
			redeemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stableswap_redeems_total",
				Help: "Count of redeem operations (any kind) by pool id.",
			}, []string{"pool_id"}),
			totalSupply: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "stableswap_total_supply",
				Help: "Current LP total supply (D) by pool id.",
			}, []string{"pool_id"}),
		}
		prometheus.MustRegister(
			swapMetricsInst.poolsCreated,
			swapMetricsInst.mintsTotal,
			swapMetricsInst.swapsTotal,
			swapMetricsInst.redeemsTotal,
			swapMetricsInst.totalSupply,
		)
	})
	return swapMetricsInst
}

func swapPoolIDLabel(poolID uint32) string {
	return strconv.FormatUint(uint64(poolID), 10)
}

func (m *swapMetrics) observePoolCreated() {
	m.poolsCreated.Inc()
}

func (m *swapMetrics) observeMint(poolID uint32, totalSupply float64) {
	m.mintsTotal.WithLabelValues(swapPoolIDLabel(poolID)).Inc()
	m.totalSupply.WithLabelValues(swapPoolIDLabel(poolID)).Set(totalSupply)
}

func (m *swapMetrics) observeSwap(poolID uint32) {
	m.swapsTotal.WithLabelValues(swapPoolIDLabel(poolID)).Inc()
}

func (m *swapMetrics) observeRedeem(poolID uint32, totalSupply float64) {
	m.redeemsTotal.WithLabelValues(swapPoolIDLabel(poolID)).Inc()
	m.totalSupply.WithLabelValues(swapPoolIDLabel(poolID)).Set(totalSupply)
}
