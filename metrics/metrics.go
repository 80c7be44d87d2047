package metrics

import "github.com/prometheus/client_golang/prometheus"

// VoiceNoteMetrics exposes counters/histograms for the webhook → transcript → reply flow.
type VoiceNoteMetrics struct {
	webhookTotal  *prometheus.CounterVec
	upstreamTotal *prometheus.CounterVec
	stageLatency  *prometheus.HistogramVec
}

func NewVoiceNoteMetrics(reg prometheus.Registerer) *VoiceNoteMetrics {
	m := &VoiceNoteMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicenote",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Inbound webhook events by processing outcome",
		}, []string{"outcome"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicenote",
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Calls to WhatsApp and transcription APIs by stage and result",
		}, []string{"stage", "status"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voicenote",
			Subsystem: "upstream",
			Name:      "stage_latency_seconds",
			Help:      "Latency of each processing stage",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.upstreamTotal, m.stageLatency)
	return m
}

func (m *VoiceNoteMetrics) ObserveWebhook(outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(outcome).Inc()
}

func (m *VoiceNoteMetrics) ObserveUpstream(stage string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.upstreamTotal.WithLabelValues(stage, status).Inc()
}

func (m *VoiceNoteMetrics) ObserveStageLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(seconds)
}
