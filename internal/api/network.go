package api

import (
	"math/rand"
	"net/http"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

// pongs is the pool of replies for the liveness ping. Table tennis
// players, in keeping with the original bridge's sense of humour.
var pongs = []string{
	"Jan-Ove Waldner",
	"Deng Yaping",
	"Ma Long",
	"Liu Guoliang",
	"Zhang Jike",
	"Wang Nan",
	"Timo Boll",
	"Ding Ning",
}

// handlePing answers without touching the message bus; it only proves
// the bridge itself is alive.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"pong": pongs[rand.Intn(len(pongs))],
	})
}

// handleInternet reports the assistant's internet connectivity.
func (s *Server) handleInternet(w http.ResponseWriter, _ *http.Request) {
	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeInternet, Data: s.appKeyData(nil)},
		bus.TypeInternetAnswer,
		"unable to retrieve internet connectivity status",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleWebsocket reports whether the assistant's websocket is listening.
func (s *Server) handleWebsocket(w http.ResponseWriter, _ *http.Request) {
	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeWebsocket, Data: s.appKeyData(nil)},
		bus.TypeWebsocketAnswer,
		"unable to retrieve websocket status",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data)
}
