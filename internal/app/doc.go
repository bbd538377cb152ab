// Package app provides application initialization and lifecycle management
// for TradePulse. It wires configuration, logging, tracing, storage and the
// service layer into an HTTP server and handles graceful shutdown.
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and tracing
//	3. Open the SQLite store and run migrations
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Configure and start the HTTP server
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run handles SIGINT and SIGTERM so that active requests are completed, the
// tracer provider is flushed and database connections are closed before the
// process exits. Initialization errors are returned to the caller; the
// package never calls os.Exit directly.
package app
