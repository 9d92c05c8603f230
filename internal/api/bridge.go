package api

import (
	"net/http"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

// Messages shown when the capability gate or the companion skill itself
// rejects a privileged operation.
const (
	msgSkillNotInstalled = "skill-rest-api is not installed on ovos core"
	msgSkillAuthFailed   = "unable to authenticate with skill-rest-api"
)

// appKeyData builds an outbound data payload carrying the encoded
// application key, merged with any operation-specific fields.
func (s *Server) appKeyData(extra map[string]any) map[string]any {
	data := map[string]any{bus.AppKeyField: s.app.EncodedKey()}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// exchangePrivileged runs a privileged bus exchange for a handler.
//
// The capability probe runs before anything is sent: a privileged
// message must never reach the bus when the companion skill cannot
// answer it. On failure the HTTP error has already been written and
// ok is false. The reply's authenticated flag is authoritative — a
// rejection is reported as an upstream auth failure, never as data.
func (s *Server) exchangePrivileged(w http.ResponseWriter, outbound bus.Message, waitFor, failMsg string) (map[string]any, bool) {
	if !s.bus.SkillAvailable(bus.APISkillID) {
		writeUnauthorized(w, msgSkillNotInstalled)
		return nil, false
	}

	reply, err := s.bus.Exchange(outbound, waitFor)
	if err != nil {
		s.logger.Error("bus exchange failed", "type", outbound.Type, "error", err)
		writeBadRequest(w, failMsg)
		return nil, false
	}
	if reply == nil {
		// Reply window expired without a usable answer.
		writeBadRequest(w, failMsg)
		return nil, false
	}
	if !reply.Context.Authenticated {
		writeUnauthorized(w, msgSkillAuthFailed)
		return nil, false
	}

	return reply.Data, true
}

// send emits a fire-and-forget message. On failure the HTTP error has
// already been written and the return is false.
func (s *Server) send(w http.ResponseWriter, outbound bus.Message, failMsg string) bool {
	if _, err := s.bus.Exchange(outbound, ""); err != nil {
		s.logger.Error("bus send failed", "type", outbound.Type, "error", err)
		writeBadRequest(w, failMsg)
		return false
	}
	return true
}

// sanitize strips configured sensitive keys from a payload, recursing
// into nested objects and arrays. Returns the payload untouched when
// redaction is disabled.
func (s *Server) sanitize(data map[string]any) map[string]any {
	if !s.app.HideSensitiveData {
		return data
	}
	redactMap(data, s.app.SensitiveKeys)
	return data
}

func redactMap(m map[string]any, keys []string) {
	for _, k := range keys {
		delete(m, k)
	}
	for _, v := range m {
		redactValue(v, keys)
	}
}

func redactValue(v any, keys []string) {
	switch val := v.(type) {
	case map[string]any:
		redactMap(val, keys)
	case []any:
		for _, item := range val {
			redactValue(item, keys)
		}
	}
}
