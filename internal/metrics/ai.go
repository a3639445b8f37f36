package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foliogen",
			Subsystem: "ai",
			Name:      "generations_total",
			Help:      "生成请求总数，按路径与结果分类。",
		},
		[]string{"path", "outcome", "model"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foliogen",
			Subsystem: "ai",
			Name:      "generation_duration_seconds",
			Help:      "生成请求耗时分布（秒），含外部补全调用。",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
		},
		[]string{"path", "model"},
	)
)

// ObserveGeneration 记录一次生成请求的结果与耗时。
// outcome 为空表示成功，否则为错误分类（ai.Kind 的字符串值）。
func ObserveGeneration(path, outcome, model string, elapsed time.Duration) {
	if outcome == "" {
		outcome = "ok"
	}
	generationTotal.WithLabelValues(path, outcome, model).Inc()
	generationDuration.WithLabelValues(path, model).Observe(elapsed.Seconds())
}
