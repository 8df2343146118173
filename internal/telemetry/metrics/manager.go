package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterFrames             prometheus.Counter
	CounterFramesNoPose       prometheus.Counter
	CounterInvalidFrames      prometheus.Counter
	CounterReps               prometheus.Counter
	CounterRepsRejected       prometheus.Counter
	CounterSessions           *prometheus.CounterVec
	CounterSourceFailures     prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge
	GaugeRepRate    prometheus.Gauge
	GaugeRepCount   prometheus.Gauge

	// histograms
	HistFrameProcessDuration prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("pushups", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("pushups", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterFrames := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frames_processed",
		Help:      "The total number of pose frames fed to the rep counter",
	})
	counterFramesNoPose := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frames_no_pose",
		Help:      "The total number of frames without a detected person",
	})
	counterInvalidFrames := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frames_invalid",
		Help:      "The total number of pose frames dropped by the decoder",
	})
	counterReps := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reps",
		Help:      "The total number of counted push-ups",
	})
	counterRepsRejected := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reps_rejected",
		Help:      "Push-ups not counted because hips or ankles were not level",
	})
	counterSessions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions",
		Help:      "Finished sessions by outcome",
	}, []string{"status"})
	counterSourceFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "source_failures",
		Help:      "The total number of pose sources that failed mid session",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeRepRate := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rep_rate_per_minute",
		Help:      "Push-ups per minute in the current session",
	})
	gaugeRepCount := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rep_count",
		Help:      "Push-ups counted in the current session",
	})

	histFrameProcessDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frame_process_duration_seconds",
		Help:      "Time spent turning one pose frame into a session update",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	})
	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:           counterRequests,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterFrames:             counterFrames,
		CounterFramesNoPose:       counterFramesNoPose,
		CounterInvalidFrames:      counterInvalidFrames,
		CounterReps:               counterReps,
		CounterRepsRejected:       counterRepsRejected,
		CounterSessions:           counterSessions,
		CounterSourceFailures:     counterSourceFailures,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		GaugeRepRate:              gaugeRepRate,
		GaugeRepCount:             gaugeRepCount,
		HistFrameProcessDuration:  histFrameProcessDuration,
		HistogramRequestDuration:  histogramRequestDuration,
	}
}
