// Package session provides in-memory session management for RAIInet matches.
//
// Manager implements service.SessionManager. Each session owns one
// engine.Game built from a GameConfig, plus creation and last-access
// timestamps.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs unless the caller supplies one. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager map is guarded by a RWMutex. The games themselves are not
// synchronised here; the service layer serialises every call that touches a
// game.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(logger))
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Delete(sess.ID)
package session
