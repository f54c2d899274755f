// Package errors provides the structured error type shared by the adapters
// packages. Every error carries a machine-readable code, a human-readable
// message, optional details, and the HTTP status the server package maps it to.
//
// The validation core raises exactly one kind of error itself:
//
//	err := errors.MissingInput("contact", []string{"email", "phone"})
//	// MISSING_INPUT: missing data: email, phone
//
// Errors returned by validator functions pass through the core untouched.
package errors
