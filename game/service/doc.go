// Package service provides the business logic layer for RAIInet matches.
//
// The service package implements:
//   - Multi-session match management
//   - Setup loading through a ConfigManager
//   - Move and ability processing with event reporting
//   - Per-viewer views and paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level match operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages match setup loading and validation.
// Broadcaster receives a Snapshot after every accepted action.
//
// Architecture:
//
// The service layer sits between drivers (the terminal controller, the spectator
// hub) and the engine. Each session owns one engine.Game, and every call that
// touches a game holds the service lock, so games are never shared between
// goroutines. Snapshots handed to the Broadcaster contain precomputed views for
// Player 1, Player 2 and spectators.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := gameService.Move(ctx, info.ID, 'a', engine.Down)
package service
