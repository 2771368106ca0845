// Package api exposes the review service over HTTP. NewRouter mounts the
// session, progress and word list endpoints under /api behind bearer-token
// authentication and a per-user rate limit; /health stays public. Handlers
// decode and validate requests, map service errors onto status codes and
// never echo internal error text to clients.
package api
