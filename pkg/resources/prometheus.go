package resources

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler serves the process, Go runtime and store gauges for
// scraping on the debug server.
func NewMetricsHandler(records func() int) (http.Handler, error) {
	registry := prometheus.NewRegistry()

	storeRecords := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "contributions",
		Name:      "store_records",
		Help:      "Number of contributions held by the in-memory store",
	}, func() float64 { return float64(records()) })

	err := registry.Register(storeRecords)
	if err != nil {
		return nil, err
	}

	err = registry.Register(collectors.NewGoCollector())
	if err != nil {
		return nil, err
	}

	err = registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err != nil {
		return nil, err
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil
}
