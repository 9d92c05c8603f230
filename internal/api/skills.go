package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartgic/ovos-bridge/internal/bus"
)

// SkillListResponse summarises the skills reported by the skill manager.
type SkillListResponse struct {
	Count         int            `json:"count"`
	CountActive   int            `json:"count_active"`
	CountInactive int            `json:"count_inactive"`
	Results       map[string]any `json:"results"`
}

// fetchSkills queries the skill manager for its skill list. The answer
// comes from the core itself, not the companion skill, so there is no
// capability probe and no authenticated flag to check.
func (s *Server) fetchSkills() (map[string]any, error) {
	reply, err := s.bus.Exchange(bus.Message{Type: bus.TypeSkillList}, bus.TypeSkillListAnswer)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, fmt.Errorf("skill list request timed out")
	}
	return reply.Data, nil
}

// skillExists reports whether the skill list contains the given id.
func skillExists(skills map[string]any, id string) bool {
	for key, v := range skills {
		if key == id {
			return true
		}
		if entry, ok := v.(map[string]any); ok && entry["id"] == id {
			return true
		}
	}
	return false
}

// handleListSkills returns the full skill list with active/inactive
// counts. The sort query parameter is accepted for compatibility; JSON
// object keys are emitted in sorted order regardless.
func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	skills, err := s.fetchSkills()
	if err != nil {
		s.logger.Error("fetching skill list", "error", err)
		writeBadRequest(w, "unable to retrieve skill list")
		return
	}

	resp := SkillListResponse{
		Count:   len(skills),
		Results: skills,
	}
	for _, v := range skills {
		entry, ok := v.(map[string]any)
		if ok && entry["active"] == true {
			resp.CountActive++
		} else {
			resp.CountInactive++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSkillSettings returns the settings of one skill, with sensitive
// keys redacted.
func (s *Server) handleSkillSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	skills, err := s.fetchSkills()
	if err != nil {
		s.logger.Error("fetching skill list", "error", err)
		writeBadRequest(w, "unable to retrieve skill list")
		return
	}
	if !skillExists(skills, id) {
		writeNotFound(w, fmt.Sprintf("skill %s not found", id))
		return
	}

	data, ok := s.exchangePrivileged(w,
		bus.Message{Type: bus.TypeSkillSettings, Data: s.appKeyData(map[string]any{"skill": id})},
		bus.TypeSkillSettingsAnswer,
		"unable to retrieve skill settings",
	)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, s.sanitize(data))
}

// handleActivateSkill asks the skill manager to activate a skill.
func (s *Server) handleActivateSkill(w http.ResponseWriter, r *http.Request) {
	s.toggleSkill(w, r, bus.TypeSkillActivate)
}

// handleDeactivateSkill asks the skill manager to deactivate a skill.
func (s *Server) handleDeactivateSkill(w http.ResponseWriter, r *http.Request) {
	s.toggleSkill(w, r, bus.TypeSkillDeactivate)
}

// toggleSkill emits a fire-and-forget activate/deactivate message after
// confirming the skill id is known.
func (s *Server) toggleSkill(w http.ResponseWriter, r *http.Request, msgType string) {
	id := chi.URLParam(r, "id")

	skills, err := s.fetchSkills()
	if err != nil {
		s.logger.Error("fetching skill list", "error", err)
		writeBadRequest(w, "unable to retrieve skill list")
		return
	}
	if !skillExists(skills, id) {
		writeNotFound(w, fmt.Sprintf("skill %s not found", id))
		return
	}

	if !s.send(w, bus.Message{Type: msgType, Data: map[string]any{"skill": id}}, "unable to reach the skill manager") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateSkills triggers a skill update cycle on the skill manager.
func (s *Server) handleUpdateSkills(w http.ResponseWriter, _ *http.Request) {
	if !s.send(w, bus.Message{Type: bus.TypeSkillUpdate}, "unable to reach the skill manager") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
