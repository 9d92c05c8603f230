// Package bus provides websocket connectivity to the voice assistant
// message bus for OVOS Bridge.
//
// This package manages:
//   - One-shot websocket connections to the assistant bus
//   - Request/reply correlation by event-type name within a bounded window
//   - The companion-skill capability probe that gates privileged operations
//
// # Architecture
//
// The assistant bus is a broadcast channel: every connected client sees
// every event, and there are no request IDs. The bridge therefore
// correlates a reply to its request purely by event-type name, discarding
// unrelated traffic until the expected type appears or the window expires.
//
//	OVOS Bridge ↔ assistant websocket bus ↔ core services / skills
//
// Each exchange dials its own connection and closes it before returning.
// Connections are never pooled or shared between requests: a fresh
// subscription per call cannot observe another caller's leftover traffic.
//
// # Usage
//
//	exchanger := bus.NewExchanger(bus.Config{
//	    URI:            cfg.Bus.URI(),
//	    ConnectTimeout: cfg.Bus.GetConnectTimeout(),
//	    ReceiveTimeout: cfg.Bus.GetReceiveTimeout(),
//	}, logger)
//
//	reply, err := exchanger.Exchange(bus.Message{Type: bus.TypeInfo}, bus.TypeInfoAnswer)
package bus
