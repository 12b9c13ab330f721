package net

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	server "pet-rescue/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewMux wires the hub's HTTP surface: join, the gameplay socket, health,
// and diagnostics.
func NewMux(hub *server.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string                    `json:"status"`
			ServerTime int64                     `json:"serverTime"`
			Rounds     []server.DiagnosticsRound `json:"rounds"`
			TickRate   int                       `json:"tickRate"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Rounds:     hub.DiagnosticsSnapshot(),
			TickRate:   server.TickRate,
		}
		writeJSON(w, payload)
	})

	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		join, err := hub.Join()
		if err != nil {
			log.Printf("join rejected: %v", err)
			http.Error(w, "failed to start round", http.StatusInternalServerError)
			return
		}
		writeJSON(w, join)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleSocket(hub, w, r)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func handleSocket(hub *server.Hub, w http.ResponseWriter, r *http.Request) {
	roundID := r.URL.Query().Get("id")
	if roundID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed for %s: %v", roundID, err)
		return
	}

	sub, snapshot, ok := hub.Subscribe(roundID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown round")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	if err := sub.Send(server.NewStateMessage(snapshot, time.Now())); err != nil {
		hub.Disconnect(roundID, "initial send failed")
		return
	}

	readLoop(hub, roundID, sub, conn)
}

func readLoop(hub *server.Hub, roundID string, sub *server.Subscriber, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			hub.Disconnect(roundID, "socket closed")
			return
		}

		var msg server.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", roundID, err)
			continue
		}

		switch msg.Type {
		case "input":
			if !hub.UpdateIntent(roundID, msg.DX, msg.DY, msg.Facing) {
				log.Printf("input ignored for unknown round %s", roundID)
			}
		case "interact":
			hub.QueueInteract(roundID)
		case "pause":
			hub.TogglePause(roundID)
		case "heartbeat":
			now := time.Now()
			rtt := measureRTT(now, msg.SentAt)
			if !hub.UpdateHeartbeat(roundID, now, rtt) {
				continue
			}
			ack := server.NewHeartbeatAck(now, msg.SentAt, rtt)
			if err := sub.Send(ack); err != nil {
				hub.Disconnect(roundID, "heartbeat ack failed")
				return
			}
		default:
			log.Printf("unknown message type %q from %s", msg.Type, roundID)
		}
	}
}

// measureRTT trusts the client clock only within a small skew window.
func measureRTT(now time.Time, clientSent int64) time.Duration {
	if clientSent <= 0 {
		return 0
	}
	clientTime := time.UnixMilli(clientSent)
	if clientTime.After(now.Add(5 * time.Second)) {
		return 0
	}
	rtt := now.Sub(clientTime)
	if rtt < 0 {
		return 0
	}
	return rtt
}
