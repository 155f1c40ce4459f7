// Package api provides the JSON REST API server for FyreOne.
//
// # Architecture
//
// The API server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → RequestID → Logging → CORS → RateLimit → Routes
//
// The health probe (/health) bypasses the middleware stack via a
// top-level mux, ensuring it remains fast and unauthenticated.
//
// # Endpoints
//
// Health probe (no middleware):
//   - GET /health — service status plus per-provider configuration state
//
// Public:
//   - POST /signup — register a lead (name, email, phone, password)
//   - POST /login  — authenticate an existing lead
//   - POST /ask    — answer a fire-safety question for a session
//
// Dashboard (shared admin password):
//   - POST /admin/auth    — verify the admin password
//   - GET  /admin/leads   — registered accounts, newest first, hashes stripped
//   - GET  /admin/stats   — totals and today-counts for users/queries/logins
//   - GET  /admin/queries — query log, newest first, capped at 500
//
// # Error Handling
//
// All error responses use an envelope format:
//
//	{"error": {"code": "...", "message": "..."}}
//
// Success bodies are endpoint-specific (no envelope); the web widget and
// dashboard consume them directly.
//
// # Security
//
// The middleware stack enforces:
//   - Per-IP rate limiting (token bucket, 60 req/min burst by default)
//   - CORS (allow-all by default; set an explicit origin list in prod)
//   - Security headers (CSP, HSTS, X-Frame-Options, etc.)
//
// Admin access is a shared password compared in constant time. Password
// hashes never leave the store: lead listings strip them and login
// comparison happens server-side.
package api
