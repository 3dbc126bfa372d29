// Package main hosts the xscribe CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline runs:
// transcribing one or more local files or URLs, listing resolved candidates
// for a reference URL, prefetching speech models, and checking external tool
// availability. It centralizes configuration resolution, structured logging
// setup, and interrupt handling so subcommands can focus on user experience
// instead of wiring.
package main
