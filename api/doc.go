// Package api serves a read-only HTTP view of running matches.
//
// Endpoints:
//
// Sessions:
//   - GET /api/sessions - list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - session summary
//   - GET /api/sessions/{id}/view - board and panels, spectator by default
//     (?viewer=P1|P2 needs WithPlayerViews, else 403)
//   - GET /api/sessions/{id}/history - paginated turn history (?page=&limit=&order=)
//
// Setups:
//   - GET /api/configs - list setup files
//   - GET /api/configs/{name} - one setup, with defaults filled in
//
// Other:
//   - GET /health
//   - /ws - spectator websocket feed, see package websocket
//
// There are no mutating endpoints: any other method under /api answers 405.
// Moves and abilities only enter through the terminal controller sharing the
// same GameService.
//
// Errors are returned as JSON:
//
//	{"error": "session not found: ab12"}
package api
