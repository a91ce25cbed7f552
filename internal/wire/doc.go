// Package wire defines the frame types exchanged over a session channel and
// their JSON encoding.
//
// Every frame is a JSON object with a "type" discriminator and a "data"
// payload. Three frame kinds exist: the one-time tools_list advertisement,
// tool_request, and tool_response. Response outcomes are an explicit tagged
// Success/Failure variant in memory while keeping the key-presence encoding
// (result vs. error) on the wire for compatibility with existing peers.
package wire
