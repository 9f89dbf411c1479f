package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/prahastiwi/sdgdoc/kit"
)

// RegisterMCP registers the service's tools on an MCP server. The same
// operations back the HTTP routes; only the decoding differs.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerClassifyTool(srv)
	s.registerExtractTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sc["required"] = required
	}
	return sc
}

func mcpContext(ctx context.Context) context.Context {
	return kit.WithTransport(ctx, "mcp")
}

// --- classify ---

func (s *Service) registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "sdg_classify",
		Description: "Classify text against the sustainable development goal rule set. Returns ranked category matches.",
		InputSchema: inputSchema(map[string]any{
			"text":        map[string]any{"type": "string", "description": "Text to classify"},
			"field":       map[string]any{"type": "string", "description": "Rule field scope (TITLE_ABS, AUTHKEY, TITLE_ABS_KEY, ALL)"},
			"min_matches": map[string]any{"type": "integer", "description": "Minimum pattern matches per category"},
		}, []string{"text"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		return s.AnalyzeText(ctx, *req.(*AnalyzeRequest))
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r AnalyzeRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r, EnrichCtx: mcpContext}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- extract ---

type extractReq struct {
	Path string `json:"path"`
}

func (s *Service) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "sdg_extract",
		Description: "Run the full pipeline on a document file (pdf, docx, doc, txt, rtf, md): extract text, parse bibliographic structure, detect identifier, classify.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to process"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractReq)
		if r.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.Path, err)
		}
		return s.ProcessDocument(ctx, data, filepath.Base(r.Path))
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r, EnrichCtx: mcpContext}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
