package utils

import (
	"go.mongodb.org/mongo-driver/event"
)

// NewPoolMonitor mirrors the driver's connection pool events into the
// mongo_pool_connections gauge.
func NewPoolMonitor() *event.PoolMonitor {
	open := MongoPoolConnections.WithLabelValues("open")
	checkedOut := MongoPoolConnections.WithLabelValues("checked_out")

	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				open.Inc()
			case event.ConnectionClosed:
				open.Dec()
			case event.GetSucceeded:
				checkedOut.Inc()
			case event.ConnectionReturned:
				checkedOut.Dec()
			case event.PoolCleared:
				checkedOut.Set(0)
			}
		},
	}
}
