package autofill

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jawadgarzaldeen1/filling-sub001/kit"
	"github.com/jawadgarzaldeen1/filling-sub001/report"
)

// RegisterMCP registers the engine's tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerStatus(srv)
	e.registerRun(srv)
	e.registerSignal(srv)
	e.registerAudit(srv)
	e.registerAddRadioRule(srv)
	e.registerListRadioRules(srv)
	e.registerDeleteRadioRule(srv)
}

func (e *Engine) registerStatus(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "formfill_status",
		Description: "Report the engine state, page origin, and fill counters",
		InputSchema: kit.InputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.Status(), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerRun(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "formfill_run",
		Description: "Run one fill pass immediately and report how many controls were written",
		InputSchema: kit.InputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		if e.State() != StateReady {
			return nil, errors.New("engine is not ready")
		}
		filled := e.RunFillPass(ctx)
		return map[string]any{"filled": filled, "total": e.filler.FilledCount()}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerSignal(srv *mcp.Server) {
	type req struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	tool := &mcp.Tool{
		Name:        "formfill_signal",
		Description: "Deliver a profile update signal to the running engine",
		InputSchema: kit.InputSchema(map[string]any{
			"type":    map[string]any{"type": "string", "description": "Signal type: CONTEXT_INVALID, SERVICES_UPDATED, UNIVERSAL_FORM_DATA_UPDATED, CATEGORY_UPDATED, LOCATION_UPDATED, SETTINGS_UPDATED"},
			"payload": map[string]any{"type": "object", "description": "Signal payload, shape depends on type"},
		}, []string{"type"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		sig, err := DecodeSignal(p.Type, p.Payload)
		if err != nil {
			return nil, err
		}
		e.Dispatch(sig)
		return map[string]any{"delivered": e.State() != StateInvalidated}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerAudit(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "formfill_audit",
		Description: "Audit the current page: forms, controls, and ranked fill candidates, as markdown",
		InputSchema: kit.InputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		e.mu.Lock()
		doc := e.doc
		selectors := e.selectors
		e.mu.Unlock()
		if doc == nil {
			return nil, errors.New("no document attached")
		}
		return report.New(selectors).Audit(doc)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerAddRadioRule(srv *mcp.Server) {
	type req struct {
		Pattern string `json:"pattern"`
		Apply   bool   `json:"apply"`
	}

	tool := &mcp.Tool{
		Name:        "formfill_add_radio_rule",
		Description: "Persist a radio selection rule (selector pattern plus whether to check matches)",
		InputSchema: kit.InputSchema(map[string]any{
			"pattern": map[string]any{"type": "string", "description": "CSS selector pattern for the radio input"},
			"apply":   map[string]any{"type": "boolean", "description": "Check matching radios when true"},
		}, []string{"pattern"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := e.radio.AddRule(ctx, p.Pattern, p.Apply); err != nil {
			return nil, err
		}
		return map[string]any{"pattern": p.Pattern, "apply": p.Apply}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerListRadioRules(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "formfill_list_radio_rules",
		Description: "List the persisted radio selection rules",
		InputSchema: kit.InputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.radio.Rules(ctx), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (e *Engine) registerDeleteRadioRule(srv *mcp.Server) {
	type req struct {
		Pattern string `json:"pattern"`
	}

	tool := &mcp.Tool{
		Name:        "formfill_delete_radio_rule",
		Description: "Delete a persisted radio selection rule",
		InputSchema: kit.InputSchema(map[string]any{
			"pattern": map[string]any{"type": "string", "description": "Pattern of the rule to delete"},
		}, []string{"pattern"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := e.radio.RemoveRule(ctx, p.Pattern); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": p.Pattern}, nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
