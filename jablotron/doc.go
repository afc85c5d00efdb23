// Package jablotron is a client for the Jablotron Cloud HTTP API.
//
// The client authenticates against the cloud with account credentials,
// holds the resulting session token, and exposes one method per remote
// endpoint: listing services, sections, thermometers, keyboard segments
// and programmable gates, fetching event history, and issuing control
// commands (arm/disarm sections, switch gates).
//
// # Session lifecycle
//
// A Client must be logged in explicitly before any data or control call:
//
//	client, err := jablotron.New(jablotron.Config{
//	    Username: "user@example.com",
//	    Password: "secret",
//	    PinCode:  "1234",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := client.PerformLogin(ctx); err != nil {
//	    return err
//	}
//	services, err := client.GetServices(ctx)
//
// Calls issued before a successful login fail with ErrNotAuthenticated
// and perform no network I/O. When the cloud reports the session invalid
// mid-use, the client re-runs login once and replays the request; a
// second rejection surfaces ErrSessionExpired. There is never more than
// one re-login attempt per call.
//
// # Errors
//
// All failures map to the sentinel errors in errors.go and are matchable
// with errors.Is. Remote status codes and messages are preserved in the
// wrapped error text. Nothing is retried beyond the single re-login.
//
// # Thread Safety
//
//   - All methods are safe for concurrent use from multiple goroutines.
//   - The session token is guarded by a mutex; a concurrent re-login
//     replaces it wholesale and in-flight calls pick up the new token
//     on replay.
//
// # Security
//
// Credentials and the session token are held in memory only and are
// never logged or persisted.
package jablotron
