package bus

// Message is a single event on the assistant message bus.
//
// Outbound messages carry a type and an optional data payload. Inbound
// messages additionally carry a context attached by the bus.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
	Context Context        `json:"context,omitempty"`
}

// Context is the metadata the bus attaches to every inbound event.
//
// Authenticated reports whether the companion skill accepted the bridge's
// application key. It is authoritative: when false, Data must not be
// trusted regardless of the HTTP-layer authorization that triggered the
// exchange.
type Context struct {
	Authenticated bool `json:"authenticated"`
}

// AppKeyField is the data field carrying the shared application key on
// messages addressed to the companion skill.
const AppKeyField = "app_key"

// APISkillID identifies the companion skill whose presence and active
// state gate the privileged bridge operations.
const APISkillID = "skill-rest-api.smartgic"

// Message types understood by the bridge. These are fixed wire constants
// of the assistant runtime and its companion skill.
const (
	// Skill manager.
	TypeSkillList           = "skillmanager.list"
	TypeSkillListAnswer     = "mycroft.skills.list"
	TypeSkillActivate       = "skillmanager.activate"
	TypeSkillDeactivate     = "skillmanager.deactivate"
	TypeSkillUpdate         = "skillmanager.update"
	TypeSkillSettings       = "ovos.api.skill_settings"
	TypeSkillSettingsAnswer = "ovos.api.skill_settings.answer"

	// System.
	TypeInfo          = "ovos.api.info"
	TypeInfoAnswer    = "ovos.api.info.answer"
	TypeConfig        = "mycroft.api.config"
	TypeConfigAnswer  = "mycroft.api.config.answer"
	TypeConfigReload  = "configuration.updated"
	TypeDebugLog      = "mycroft.debug.log"
	TypeSleep         = "recognizer_loop:sleep"
	TypeSleepAnswer   = "ovos.api.sleep.answer"
	TypeWakeUp        = "recognizer_loop:wake_up"
	TypeWakeUpAnswer  = "ovos.api.wake_up.answer"
	TypeIsAwake       = "ovos.api.is_awake"
	TypeIsAwakeAnswer = "ovos.api.is_awake.answer"
	TypeCache         = "ovos.api.cache"
	TypeCacheAnswer   = "ovos.api.cache.answer"

	// Network.
	TypeInternet        = "mycroft.api.internet"
	TypeInternetAnswer  = "mycroft.api.internet.answer"
	TypeWebsocket       = "mycroft.api.websocket"
	TypeWebsocketAnswer = "mycroft.api.websocket.answer"

	// Voice.
	TypeSpeak     = "speak"
	TypeStop      = "mycroft.stop"
	TypeMicMute   = "mycroft.mic.mute"
	TypeMicUnmute = "mycroft.mic.unmute"
	TypeMicListen = "mycroft.mic.listen"
)
