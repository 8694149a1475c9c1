/*
Package sacsdk provides a client SDK for the central access control service.

# Overview

The service is the single place where users, roles, permissions and modules
are administered. Satellite modules never keep their own user tables; they
present the caller's bearer token back to the service to learn who the
caller is and what they may do.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (health checks, login)
  - Session: authenticated operations carrying the opaque bearer token

Create an SDKClient to reach public endpoints and authenticate:

	client := sacsdk.NewSDKClient("https://sac.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Authenticate to create a session
	session, err := client.Login(ctx, "12345678-9", password, "backoffice")

Use a Session for everything else:

	// Which modules can this user enter?
	modules, err := session.Modules(ctx)

	// What may they do inside one module?
	result, err := session.ValidateToken(ctx, moduleID)

	// Admin surface (requires the administrator role)
	users, err := session.ListUsers(ctx)

Tokens are opaque and do not renew themselves. Rotate with session.Refresh
before the configured expiry, or log in again after it. A session built with
NewSessionFromToken behaves identically to one built by Login.

# Errors

Failed requests return *APIError carrying the service's stable error kind.
Branch with the helpers:

	if sacsdk.IsSessionExpired(err) {
		// ask the user to log in again
	}
*/
package sacsdk
