// Package main hosts the clipshr CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, builds the job
// orchestrator and either serves it over HTTP or runs a single analyze,
// download or history operation from the terminal.
package main
