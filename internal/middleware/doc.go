// Package middleware provides HTTP middleware for the movie catalog service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Configurable filtering for static files and health checks
package middleware
