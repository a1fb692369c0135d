// Package auth provides bearer token authentication for the metrics API.
//
// Submitters and readers present a signed JWT (HS256, shared secret from
// configuration) with a scope claim:
//   - "write" may submit metrics and read everything
//   - "read" may only query stored metrics and derived state
//
// Tokens are validated by signature and expiry alone; there is no user
// database. Issue tokens out of band with GenerateToken.
package auth
