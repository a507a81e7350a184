// Package websocket streams RAIInet matches to read-only spectators.
//
// Hub implements service.Broadcaster. After every accepted move or ability the
// service publishes a Snapshot holding one precomputed view per viewer, and the
// hub sends each client the view it subscribed to. Spectators (viewer=none)
// only see links revealed to both players.
//
// Message Protocol:
//
// Clients connect to /ws?session=ab12. viewer=P1 or viewer=P2 is refused with
// 403 unless the handler was built WithPlayerViews(true). Outgoing messages are JSON:
//
//	{"session_id":"ab12","event":"initial_state","view":{...}}
//	{"session_id":"ab12","event":"state_update","view":{...},"events":[...]}
//
// Incoming messages are read and discarded; the feed never changes a game.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithLogger(logger))
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, configs, service.WithBroadcaster(hub))
//	http.Handle("/ws", websocket.NewHandler(hub, svc))
//
// Concurrency:
//
// Only the Run goroutine touches the client map. Publish never blocks, so the
// service can call it while holding its own lock.
package websocket
