package api

import (
	"encoding/json"
	"net/http"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

// handleSystemInfo returns version and platform details reported by the
// companion skill.
func (s *Server) handleSystemInfo(w http.ResponseWriter, _ *http.Request) {
	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeInfo, Data: s.appKeyData(nil)},
		bus.TypeInfoAnswer,
		"unable to retrieve system information",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": data})
}

// handleGetConfig returns the assistant configuration with sensitive
// keys redacted. The core query parameter selects the core-level
// configuration instead of the merged user one.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{}
	if core := r.URL.Query().Get("core"); core != "" {
		payload["core"] = core == "true"
	}

	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeConfig, Data: s.appKeyData(payload)},
		bus.TypeConfigAnswer,
		"unable to retrieve configuration",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": s.sanitize(data)})
}

// handleReloadConfig asks the assistant to reload its configuration
// from disk.
func (s *Server) handleReloadConfig(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeConfigReload}, "unable to trigger configuration reload") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetLogLevel changes the assistant's log level at runtime. The
// bus query parameter additionally toggles bus message logging.
func (s *Server) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	if level == "" {
		writeBadRequest(w, "level query parameter is required")
		return
	}

	payload := map[string]any{
		"level": level,
		"bus":   r.URL.Query().Get("bus") == "true",
	}
	if !s.send(w, bus.Message{Type: bus.TypeDebugLog, Data: payload}, "unable to change log level") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DialogRequest is the optional body for sleep/wakeup confirmations.
type DialogRequest struct {
	Dialog string `json:"dialog"`
}

// handleSleep puts the recognizer loop to sleep. With confirm=true and
// a dialog in the body, the assistant speaks the confirmation.
func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	s.setSleepMode(w, r, bus.TypeSleep, bus.TypeSleepAnswer, "enabled", "unable to put ovos core to sleep")
}

// handleWakeUp wakes the recognizer loop back up.
func (s *Server) handleWakeUp(w http.ResponseWriter, r *http.Request) {
	s.setSleepMode(w, r, bus.TypeWakeUp, bus.TypeWakeUpAnswer, "disabled", "unable to wake up ovos core")
}

// setSleepMode drives the sleep/wakeup exchange shared by both handlers.
func (s *Server) setSleepMode(w http.ResponseWriter, r *http.Request, msgType, answerType, mode, failMsg string) {
	_, ok := s.exchangePrivileged(w,
		bus.Message{Type: msgType, Data: s.appKeyData(nil)},
		answerType,
		failMsg,
	)
	if !ok {
		return
	}

	result := map[string]any{"sleep_mode": mode}

	if r.URL.Query().Get("confirm") == "true" {
		var req DialogRequest
		// Body is optional; a missing or invalid one just skips the dialog.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Dialog != "" {
			// Best effort: the mode change already happened.
			speak := bus.Message{Type: bus.TypeSpeak, Data: map[string]any{"utterance": req.Dialog}}
			if _, err := s.bus.Exchange(speak, ""); err != nil {
				s.logger.Warn("speaking confirmation dialog", "error", err)
			} else {
				result["dialog"] = req.Dialog
			}
		}
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleSleepStatus reports whether the recognizer loop is awake.
func (s *Server) handleSleepStatus(w http.ResponseWriter, _ *http.Request) {
	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeIsAwake, Data: s.appKeyData(nil)},
		bus.TypeIsAwakeAnswer,
		"unable to retrieve sleep status",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// CacheRequest selects which cache the assistant should clear.
type CacheRequest struct {
	CacheType string `json:"cache_type"`
}

// handleClearCache asks the companion skill to clear a cache (TTS, etc.).
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	var req CacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.CacheType == "" {
		writeBadRequest(w, "cache_type is required")
		return
	}

	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeCache, Data: s.appKeyData(map[string]any{"cache_type": req.CacheType})},
		bus.TypeCacheAnswer,
		"unable to clear cache",
	)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, data)
}
