package bus

// SkillAvailable reports whether the skill identified by skillID is
// installed and active on the assistant side.
//
// It lists the installed skills over the bus and scans the reply for an
// entry whose id matches and whose active flag is set. A transport error,
// a timed-out window, or a malformed reply all count as unavailable — the
// probe fails closed, since it gates privileged operations.
func (e *Exchanger) SkillAvailable(skillID string) bool {
	reply, err := e.Exchange(Message{Type: TypeSkillList}, TypeSkillListAnswer)
	if err != nil {
		e.logger.Warn("skill probe failed", "skill", skillID, "error", err)
		return false
	}
	if reply == nil {
		return false
	}

	for _, entry := range reply.Data {
		skill, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := skill["id"].(string)
		active, _ := skill["active"].(bool)
		if id == skillID && active {
			return true
		}
	}
	return false
}
