package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventhub_frames_pushed_total",
		Help: "Frames broadcast to connected channels, by event kind.",
	}, []string{"event"})

	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventhub_frames_dropped_total",
		Help: "Frames dropped because a channel consumer was too slow.",
	})

	OpenChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_open_channels",
		Help: "Currently registered push channels.",
	})

	ClientFramesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventhub_client_frames_received_total",
		Help: "Frames delivered to a client session, by event kind.",
	}, []string{"event"})

	ClientReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventhub_client_reconnects_total",
		Help: "Channel reconnections after a dropped connection.",
	})
)
