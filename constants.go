package server

import "time"

const (
	writeWait         = 10 * time.Second
	TickRate          = 15 // simulation ticks per second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
)
