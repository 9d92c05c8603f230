package api

import (
	"encoding/json"
	"net/http"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

// defaultLang is used when a speech request does not name a language.
const defaultLang = "en-us"

// SpeechRequest is the body for POST /v1/voice/speech.
type SpeechRequest struct {
	Utterance string `json:"utterance"`
	Lang      string `json:"lang"`
}

// handleSpeech asks the assistant to speak an utterance. The speak
// message is fire-and-forget; the response echoes what was sent.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Utterance == "" {
		writeBadRequest(w, "utterance is required")
		return
	}
	if req.Lang == "" {
		req.Lang = defaultLang
	}

	payload := map[string]any{
		"utterance": req.Utterance,
		"lang":      req.Lang,
	}
	if !s.send(w, bus.Message{Type: bus.TypeSpeak, Data: payload}, "unable to send speech to ovos core") {
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

// handleStopSpeech interrupts any speech currently playing.
func (s *Server) handleStopSpeech(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeStop}, "unable to stop speech") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMuteMicrophone mutes the assistant's microphone.
func (s *Server) handleMuteMicrophone(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeMicMute}, "unable to mute the microphone") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUnmuteMicrophone unmutes the assistant's microphone.
func (s *Server) handleUnmuteMicrophone(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeMicUnmute}, "unable to unmute the microphone") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListen triggers the wake-word listener as if the wake word had
// been spoken.
func (s *Server) handleListen(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeMicListen}, "unable to trigger listening") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
