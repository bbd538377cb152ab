// Package services implements the business logic layer between the HTTP
// handlers and the storage and analytics packages.
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
//	- DataService: ingests, lists and deletes trades and price observations
//	- AnalyticsService: computes PnL histories and max-profit summaries
//	- HealthService: provides system health checks
//
// # Error Handling
//
// Services return domain-specific errors that handlers transform into
// RFC 7807 problem responses:
//
//	- Validation errors for invalid input
//	- Parsing errors for malformed uploads
//	- Not found errors for missing resources
//	- Storage errors for database failures
package services
