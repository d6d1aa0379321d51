package poolmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/schets/compacting-object-pool/pool"
)

func TestCollectorReportsLiveStats(t *testing.T) {
	p, err := pool.New(pool.Config{Size: 16, Align: 8})
	require.NoError(t, err)
	defer p.Close()

	a, err := p.Alloc()
	require.NoError(t, err)
	p.Free(a)

	c := NewCollector("widgets", p)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	seen := map[string]float64{}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			}
			seen[fam.GetName()] = v
		}
	}

	require.Contains(t, seen, "compacting_pool_alloc_streak")
	require.Equal(t, float64(1), seen["compacting_pool_alloc_streak"])
	require.Equal(t, float64(1), seen["compacting_pool_empty_slabs"])
}
