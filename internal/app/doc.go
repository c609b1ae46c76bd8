// Package app wires application dependencies for the CLI and the daemon.
//
// It builds the concrete stores, collaborators and high-level services
// from Config, exposing them via the Wire struct for commands to use.
package app
