// Package services implements the driving port interfaces.
// Services hold the RoPA core: normalisation of extracted JSON, cell writes,
// patch reconciliation and session management. They orchestrate calls to
// driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
