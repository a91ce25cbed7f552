// Package cli implements the windsurf-mcp command line interface.
//
// Subcommands: serve runs the WebSocket tool server, call invokes a single
// tool on a running server, tools lists a server's advertisement, and mcp
// serves the registry over MCP stdio for editor integration.
//
// Configuration is resolved flag-first, then WINDSURF_MCP_* environment
// variables, then defaults.
package cli
