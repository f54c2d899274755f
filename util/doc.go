// Package util provides small generic helpers shared by the validators, the
// configuration loader and the HTTP API: slice operations, size and boolean
// parsing, and string sanitization.
package util
