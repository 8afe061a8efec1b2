package main

import (
	"net/http"

	"github.com/CodedInternet/gominer/comms"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StatusSocket streams state frames from hub. Anything the client sends is
// ignored.
func StatusSocket(hub *comms.Hub, l hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			l.Debug("upgrade failed", "path", r.URL.Path, "error", err)
			return
		}
		hub.Serve(conn, nil)
	}
}

// CommandSocket reads json commands and answers each with its id or error.
func CommandSocket(hub *comms.Hub, conductor *comms.Conductor, l hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			l.Debug("upgrade failed", "path", r.URL.Path, "error", err)
			return
		}
		hub.Serve(conn, conductor.HandleMessage)
	}
}
