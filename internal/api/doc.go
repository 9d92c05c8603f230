// Package api provides the HTTP REST surface of OVOS Bridge.
//
// Every endpoint translates one HTTP request into one message-bus
// exchange: connect, send, optionally wait for a correlated reply,
// close. Privileged endpoints are gated twice — a JWT bearer check at
// the HTTP layer and a capability probe confirming the companion
// skill-rest-api skill is installed and active on the assistant side.
//
// The server follows the standard lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
