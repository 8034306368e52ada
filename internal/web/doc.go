// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package web serves the LiftLog HTML interface.
//
// Every form posts back to the server, which validates it, stores the
// outcome as flash messages in the signed "liftlog" cookie and redirects.
// The cookie also carries the opaque session token; the user it maps to is
// resolved per request by the session middleware and passed to handlers
// through the request context.
package web
