// ABOUTME: Line-delimited JSON-RPC 2.0 loop bridging stdin/stdout to the tool handler
// ABOUTME: Mechanical framing only, all tool behavior lives in the handler package

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dindicoelho/Inoreader-MCP/handler"
)

const (
	serverName      = "inoreader-mcp"
	serverVersion   = "1.0.0"
	protocolVersion = "0.1.0"

	// maxLineBytes bounds a single request line. Article id batches are
	// small; this is generous.
	maxLineBytes = 10 * 1024 * 1024
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// toolExecutor is the slice of the tool handler the RPC loop needs
type toolExecutor interface {
	Tools() []handler.ToolSpec
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// textContent is the single content block type the tool surface produces
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callToolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type rpcServer struct {
	exec   toolExecutor
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

func newRPCServer(exec toolExecutor, in io.Reader, out io.Writer, logger *slog.Logger) *rpcServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &rpcServer{exec: exec, in: in, out: out, logger: logger}
}

// Serve reads one request per line until EOF. Responses are written as
// single-line JSON in request order; notifications produce no response.
func (s *rpcServer) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if resp := s.handleLine(ctx, line); resp != nil {
			if err := s.writeResponse(resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
	return scanner.Err()
}

func (s *rpcServer) handleLine(ctx context.Context, line []byte) *rpcResponse {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Error("Failed to parse request", "error", err)
		return errorResponse(nil, codeParseError, "parse error")
	}

	resp := s.dispatch(ctx, &req)

	// A request without an id is a notification: handled, never answered.
	if isNotification(req.ID) {
		return nil
	}
	return resp
}

func (s *rpcServer) dispatch(ctx context.Context, req *rpcRequest) *rpcResponse {
	s.logger.Debug("Dispatching request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo": map[string]any{
				"name":    serverName,
				"version": serverVersion,
			},
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
		})

	case "tools/list":
		return resultResponse(req.ID, map[string]any{
			"tools": s.exec.Tools(),
		})

	case "tools/call":
		return s.callTool(ctx, req)

	case "":
		return errorResponse(req.ID, codeInvalidRequest, "missing method")

	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *rpcServer) callTool(ctx context.Context, req *rpcRequest) *rpcResponse {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeInvalidParams, "invalid params")
		}
	}
	if params.Name == "" {
		return errorResponse(req.ID, codeInvalidParams, "missing tool name")
	}

	text, err := s.exec.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		// Tool failures stay in-band as error text, matching the text
		// contract of the tool surface.
		return resultResponse(req.ID, callToolResult{
			Content: []textContent{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		})
	}

	return resultResponse(req.ID, callToolResult{
		Content: []textContent{{Type: "text", Text: text}},
	})
}

func (s *rpcServer) writeResponse(resp *rpcResponse) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')
	_, err = s.out.Write(encoded)
	return err
}

func isNotification(id json.RawMessage) bool {
	return len(id) == 0 || bytes.Equal(id, []byte("null"))
}

func resultResponse(id json.RawMessage, result any) *rpcResponse {
	return &rpcResponse{JSONRPC: "2.0", ID: normalizeID(id), Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *rpcResponse {
	return &rpcResponse{JSONRPC: "2.0", ID: normalizeID(id), Error: &rpcError{Code: code, Message: message}}
}

// normalizeID keeps the response id field explicit: a request that arrived
// without an id (or unparseable) is answered with id null.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
