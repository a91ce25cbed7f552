// Package windsurfmcp provides a WebSocket tool dispatch server and client
// for integrating custom tools with the Windsurf editor.
//
// A server hosts a registry of named tools. Clients connect over a persistent
// WebSocket, receive an advertisement of the available tools, and invoke them
// with parameter bundles. Responses are correlated back to their requests, so
// many calls can be in flight on one connection and results may arrive in any
// order. Every call resolves: with a result, a remote failure, a timeout, or
// a connection error.
//
// # Serving Tools
//
// Build tools with NewTool and hand them to NewServer:
//
//	echo := windsurfmcp.NewTool("echo", "Echoes its input",
//	    map[string]windsurfmcp.ParamSpec{
//	        "text": {Type: "string", Description: "Text to echo back"},
//	    },
//	    func(ctx context.Context, params map[string]any) (any, error) {
//	        return params["text"], nil
//	    },
//	)
//
//	srv, err := windsurfmcp.NewServer([]*windsurfmcp.Tool{echo})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(srv.ListenAndServe(ctx, ":8089"))
//
// The server also exposes plain HTTP endpoints: GET / for service info,
// GET /tools for the tool list, and POST /tools/{name} for synchronous
// invocation without a WebSocket.
//
// # Calling Tools
//
// Dial a server and call tools over the shared connection:
//
//	client, err := windsurfmcp.Dial(ctx, "ws://localhost:8089/ws")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Call(ctx, "echo", map[string]any{"text": "hi"})
//
// For a single invocation, Call dials, invokes, and disconnects in one step:
//
//	result, err := windsurfmcp.Call(ctx, "ws://localhost:8089/ws", "echo",
//	    map[string]any{"text": "hi"})
package windsurfmcp
