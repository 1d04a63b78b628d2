package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const reasonLabel = "reason"

var (
	trianglesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxtile_triangles_queued",
		Help: "The number of screen-space triangles queued for rasterization.",
	})

	trianglesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxtile_triangles_discarded",
		Help: "The triangles removed before rasterization, by reason.",
	}, []string{
		reasonLabel,
	})
)

func instrumentFrame(s Stats) {
	trianglesQueued.Add(float64(s.Queued))

	for reason, n := range map[string]int{
		"backface":        s.BackfaceCulled,
		"near_plane":      s.NearClipped,
		"off_screen":      s.OffScreen,
		"degenerate":      s.Degenerate,
		"queue_full":      s.QueueDropped,
		"fragment_budget": s.FragmentDrops,
	} {
		if n == 0 {
			continue
		}
		trianglesDiscarded.With(prometheus.Labels{
			reasonLabel: reason,
		}).Add(float64(n))
	}
}
