package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "paircall",
		Name:      "active_connections",
		Help:      "Currently connected clients across all transports.",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "paircall",
		Name:      "active_rooms",
		Help:      "Rooms currently held in memory.",
	})

	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "rooms_created_total",
		Help:      "Rooms created since process start.",
	})

	RoomsJoined = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "rooms_joined_total",
		Help:      "Successful joins since process start.",
	})

	RoomsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "rooms_expired_total",
		Help:      "Rooms deleted by the single-occupant grace timer.",
	})

	SignalsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "signals_relayed_total",
		Help:      "Signaling events forwarded to a live target.",
	})

	SignalsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "signals_dropped_total",
		Help:      "Signaling events dropped because the target was gone.",
	})

	RoomErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paircall",
		Name:      "room_errors_total",
		Help:      "Room-action failures reported to clients, by code.",
	}, []string{"code"})
)
