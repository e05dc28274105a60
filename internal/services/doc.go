// Package services implements the business logic layer of the segment
// explorer. It provides a clean separation between HTTP handlers and the
// dataset engine, ensuring that session state and business rules are
// centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- ExplorerService: owns the active dataset and computes filtered views
//	- HealthService: provides system health checks
//
// # Error Handling
//
// Services return the sentinel errors from internal/errors so that handlers
// can map them to RFC 7807 problem responses with errors.Is.
package services
