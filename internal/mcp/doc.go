// Package mcp exposes the tool registry as a Model Context Protocol server
// over stdio, so editors that speak MCP can invoke the same tools the
// WebSocket dispatch server offers.
package mcp
