package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/richinex/gemini-mcp/tools"
)

// maxLineSize bounds a single request line. Inline base64 images in
// arguments can be large, so this is well above typical JSON-RPC traffic.
const maxLineSize = 10 * 1024 * 1024

// Dispatcher is the tool layer the server routes to. *tools.Registry
// satisfies it.
type Dispatcher interface {
	Definitions() []tools.Definition
	Call(ctx context.Context, name string, args json.RawMessage) (*tools.Result, error)
}

// Server reads newline-delimited JSON-RPC requests from in and writes one
// response line per request to out. Requests are handled one at a time in
// arrival order, so replies never interleave.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	version    string

	in  io.Reader
	out io.Writer
}

// NewServer creates a server speaking the protocol over the given streams.
func NewServer(dispatcher Dispatcher, logger *slog.Logger, version string, in io.Reader, out io.Writer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dispatcher: dispatcher,
		logger:     logger,
		version:    version,
		in:         in,
		out:        out,
	}
}

// Run serves until the input stream closes or the context is canceled.
// A closed stdin is a normal shutdown, not an error.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("discarding malformed request", "error", err)
			s.writeError(json.RawMessage("null"), codeParseError, "parse error: "+err.Error())
			continue
		}
		s.handle(ctx, &req)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request stream: %w", err)
	}
	return nil
}

func (s *Server) handle(ctx context.Context, req *request) {
	s.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    capabilities{},
			ServerInfo:      serverInfo{Name: "gemini-mcp", Version: s.version},
		})
	case "notifications/initialized":
		// Notification; nothing to send back.
	case "ping":
		s.writeResult(req.ID, struct{}{})
	case "tools/list":
		s.writeResult(req.ID, s.listTools())
	case "tools/call":
		s.callTool(ctx, req)
	default:
		if req.isNotification() {
			s.logger.Debug("ignoring notification", "method", req.Method)
			return
		}
		s.writeError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) listTools() toolsListResult {
	defs := s.dispatcher.Definitions()
	infos := make([]toolInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, toolInfo{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return toolsListResult{Tools: infos}
}

func (s *Server) callTool(ctx context.Context, req *request) {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(req.ID, codeInvalidParams, "invalid params: "+err.Error())
		return
	}
	if params.Name == "" {
		s.writeError(req.ID, codeInvalidParams, "invalid params: tool name is required")
		return
	}

	result, err := s.dispatcher.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		var verr *tools.ValidationError
		switch {
		case errors.As(err, &verr):
			s.writeError(req.ID, codeInvalidParams, err.Error())
		case errors.Is(err, tools.ErrUnknownTool):
			s.writeError(req.ID, codeMethodNotFound, err.Error())
		default:
			s.writeError(req.ID, codeToolFailed, err.Error())
		}
		return
	}
	s.writeResult(req.ID, result)
}

func (s *Server) writeResult(id json.RawMessage, result interface{}) {
	s.write(response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.write(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) write(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		return
	}

	if _, err := s.out.Write(append(data, '\n')); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
