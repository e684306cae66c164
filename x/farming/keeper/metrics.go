package keeper

import (
	"math/big"
	"strconv"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
)

// farmingMetrics tracks claim volume and the running deducted total per
// pool (spec §2's ambient-stack note), the same Prometheus-counters-
// per-keeper shape as weightedpool/stableswap/lending.
type farmingMetrics struct {
	claimsTotal    *prometheus.CounterVec
	deductedBonus  *prometheus.GaugeVec
}

var (
	farmingMetricsOnce sync.Once
	farmingMetricsInst *farmingMetrics
)

func metrics() *farmingMetrics {
	farmingMetricsOnce.Do(func() {
		farmingMetricsInst = &farmingMetrics{
			claimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "farming_claims_total",
				Help: "Count of bonus claims settled by pool id.",
			}, []string{"pool_id"}),
			deductedBonus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "farming_deducted_bonus",
				Help: "Cumulative bonus deducted from the pool allocation, by pool id.",
			}, []string{"pool_id"}),
		}
		prometheus.MustRegister(
			farmingMetricsInst.claimsTotal,
			farmingMetricsInst.deductedBonus,
		)
	})
	return farmingMetricsInst
}

func farmingPoolIDLabel(poolID uint32) string {
	return strconv.FormatUint(uint64(poolID), 10)
}

func intToFloat(v sdk.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

func (m *farmingMetrics) observeClaim(poolID uint32, deducted sdk.Int) {
	label := farmingPoolIDLabel(poolID)
	m.claimsTotal.WithLabelValues(label).Inc()
	m.deductedBonus.WithLabelValues(label).Set(intToFloat(deducted))
}
