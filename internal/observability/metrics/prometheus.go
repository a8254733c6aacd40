package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry serves Go runtime metrics and static build information for scraping.
type Registry struct {
	registry  *prometheus.Registry
	modelInfo *prometheus.GaugeVec
}

func NewRegistry(serviceVersion, modelVersion string, classes []string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	modelInfo := promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swb_model_info",
			Help: "Loaded classifier artifact, always 1",
		},
		[]string{"service_version", "model_version", "class_count"},
	)
	modelInfo.WithLabelValues(serviceVersion, modelVersion, strconv.Itoa(len(classes))).Set(1)

	return &Registry{
		registry:  reg,
		modelInfo: modelInfo,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
