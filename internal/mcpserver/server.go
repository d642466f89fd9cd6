package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/edit"
	"github.com/xmazu/envq/internal/envfile"
	"github.com/xmazu/envq/internal/logging"
)

type Options struct {
	Version string
	Logger  *slog.Logger
	// Audit records every file change in .envq/audit.jsonl next to the
	// edited file.
	Audit bool
}

// Server exposes envq's document operations as MCP tools.
type Server struct {
	opts      Options
	logger    *slog.Logger
	sessionID string
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		opts:      opts,
		logger:    logger.With(slog.String("component", "mcp")),
		sessionID: audit.NewSessionID(),
	}
}

// Run serves the tools on stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "envq",
		Version: s.opts.Version,
	}, nil)
	s.register(server)

	s.logger.Info("serving on stdio", slog.String("session", s.sessionID))
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) register(server *mcpsdk.Server) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_keys",
		Description: "List the keys assigned in an env file, in file order. Never returns values.",
	}, s.listKeys)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_values",
		Description: "List key/value pairs of an env file in file order. Set mask to hide all but the last characters of each value.",
	}, s.listValues)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_value",
		Description: "Get the value of one key. Quotes and escapes are already decoded.",
	}, s.getValue)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_comment",
		Description: "Get the inline comment written after a key's value. has_comment is false when there is none.",
	}, s.getComment)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_header",
		Description: "Get the header: the comment block at the top of the file, markers stripped.",
	}, s.getHeader)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "set_value",
		Description: "Set a key's value. Existing keys keep their position, comment and quote style; new keys are appended. The rest of the file is left byte for byte as it was.",
	}, s.setValue)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "set_comment",
		Description: "Set the inline comment of an existing key. The comment must be a single line.",
	}, s.setComment)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "set_header",
		Description: "Replace the header comment block. Each line of header becomes one comment line. An empty header removes it.",
	}, s.setHeader)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "del_key",
		Description: "Delete a key and its line from the file.",
	}, s.delKey)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "del_comment",
		Description: "Remove a key's inline comment, keeping the assignment.",
	}, s.delComment)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "del_header",
		Description: "Remove the header comment block.",
	}, s.delHeader)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "audit_recent",
		Description: "Show recent entries of the change log kept in .envq/audit.jsonl. Entries name the file and key changed, never values.",
	}, s.auditRecent)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "audit_verify",
		Description: "Verify the hash chain of the change log. Reports line numbers where the chain breaks.",
	}, s.auditVerify)
}

type ListArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Mask    bool   `json:"mask,omitempty" jsonschema:"mask values, e.g. ****WXYZ"`
}

type KeyArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Key     string `json:"key" jsonschema:"key name, e.g. DATABASE_URL"`
}

type GetValueArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Key     string `json:"key" jsonschema:"key name, e.g. DATABASE_URL"`
	Mask    bool   `json:"mask,omitempty" jsonschema:"mask the value, e.g. ****WXYZ"`
}

type SetValueArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Key     string `json:"key" jsonschema:"key name, e.g. DATABASE_URL"`
	Value   string `json:"value" jsonschema:"new value, unquoted"`
}

type SetCommentArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Key     string `json:"key" jsonschema:"key name, e.g. DATABASE_URL"`
	Comment string `json:"comment" jsonschema:"comment text without the leading #"`
}

type SetHeaderArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
	Header  string `json:"header" jsonschema:"header text; one comment line per line"`
}

type AuditArgs struct {
	Workdir string `json:"workdir,omitempty" jsonschema:"directory holding .envq/audit.jsonl (default: current)"`
	Count   int    `json:"count,omitempty" jsonschema:"number of entries to return (default: 10)"`
}

type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) listKeys(ctx context.Context, req *mcpsdk.CallToolRequest, args FileArgs) (*mcpsdk.CallToolResult, any, error) {
	path, doc, err := args.load()
	if err != nil {
		return toolError(err), nil, nil
	}
	return successResult(map[string]any{"keys": doc.Keys(), "path": path}), nil, nil
}

func (s *Server) listValues(ctx context.Context, req *mcpsdk.CallToolRequest, args ListArgs) (*mcpsdk.CallToolResult, any, error) {
	path, doc, err := FileArgs{Path: args.Path, Workdir: args.Workdir}.load()
	if err != nil {
		return toolError(err), nil, nil
	}
	values := []keyValue{}
	for _, kv := range doc.Values() {
		v := kv.Value
		if args.Mask {
			v = edit.MaskValue(v)
		}
		values = append(values, keyValue{Key: kv.Key, Value: v})
	}
	return successResult(map[string]any{"values": values, "path": path}), nil, nil
}

func (s *Server) getValue(ctx context.Context, req *mcpsdk.CallToolRequest, args GetValueArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	_, doc, err := FileArgs{Path: args.Path, Workdir: args.Workdir}.load()
	if err != nil {
		return toolError(err), nil, nil
	}
	value, err := doc.Get(args.Key)
	if err != nil {
		return toolError(err), nil, nil
	}
	if args.Mask {
		value = edit.MaskValue(value)
	}
	return successResult(map[string]any{"key": args.Key, "value": value}), nil, nil
}

func (s *Server) getComment(ctx context.Context, req *mcpsdk.CallToolRequest, args KeyArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	_, doc, err := FileArgs{Path: args.Path, Workdir: args.Workdir}.load()
	if err != nil {
		return toolError(err), nil, nil
	}
	comment, ok, err := doc.Comment(args.Key)
	if err != nil {
		return toolError(err), nil, nil
	}
	return successResult(map[string]any{"key": args.Key, "comment": comment, "has_comment": ok}), nil, nil
}

func (s *Server) getHeader(ctx context.Context, req *mcpsdk.CallToolRequest, args FileArgs) (*mcpsdk.CallToolResult, any, error) {
	_, doc, err := args.load()
	if err != nil {
		return toolError(err), nil, nil
	}
	return successResult(map[string]any{"header": doc.Header()}), nil, nil
}

func (s *Server) setValue(ctx context.Context, req *mcpsdk.CallToolRequest, args SetValueArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	return s.apply(FileArgs{Path: args.Path, Workdir: args.Workdir}, audit.OpSetKey, args.Key, func(doc *envfile.Document) error {
		return doc.Set(args.Key, args.Value)
	})
}

func (s *Server) setComment(ctx context.Context, req *mcpsdk.CallToolRequest, args SetCommentArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	return s.apply(FileArgs{Path: args.Path, Workdir: args.Workdir}, audit.OpSetComment, args.Key, func(doc *envfile.Document) error {
		return doc.SetComment(args.Key, args.Comment)
	})
}

func (s *Server) setHeader(ctx context.Context, req *mcpsdk.CallToolRequest, args SetHeaderArgs) (*mcpsdk.CallToolResult, any, error) {
	return s.apply(FileArgs{Path: args.Path, Workdir: args.Workdir}, audit.OpSetHeader, "", func(doc *envfile.Document) error {
		doc.SetHeader(args.Header)
		return nil
	})
}

func (s *Server) delKey(ctx context.Context, req *mcpsdk.CallToolRequest, args KeyArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	return s.apply(FileArgs{Path: args.Path, Workdir: args.Workdir}, audit.OpDelKey, args.Key, func(doc *envfile.Document) error {
		return doc.Delete(args.Key)
	})
}

func (s *Server) delComment(ctx context.Context, req *mcpsdk.CallToolRequest, args KeyArgs) (*mcpsdk.CallToolResult, any, error) {
	if args.Key == "" {
		return errorResult("key is required"), nil, nil
	}
	return s.apply(FileArgs{Path: args.Path, Workdir: args.Workdir}, audit.OpDelComment, args.Key, func(doc *envfile.Document) error {
		return doc.DeleteComment(args.Key)
	})
}

func (s *Server) delHeader(ctx context.Context, req *mcpsdk.CallToolRequest, args FileArgs) (*mcpsdk.CallToolResult, any, error) {
	return s.apply(args, audit.OpDelHeader, "", func(doc *envfile.Document) error {
		doc.DeleteHeader()
		return nil
	})
}

func (s *Server) apply(args FileArgs, op audit.Op, key string, fn func(*envfile.Document) error) (*mcpsdk.CallToolResult, any, error) {
	path, err := args.resolve()
	if err != nil {
		return toolError(err), nil, nil
	}

	changed, err := edit.Apply(path, fn)
	if err != nil {
		s.logger.Debug("tool failed", slog.String("op", string(op)), slog.String("path", path), slog.Any("error", err))
		return toolError(err), nil, nil
	}
	if changed {
		s.record(path, op, key)
	}

	out := map[string]any{"ok": true, "changed": changed, "path": path}
	if key != "" {
		out["key"] = key
	}
	return successResult(out), nil, nil
}

func (s *Server) record(path string, op audit.Op, key string) {
	if !s.opts.Audit {
		return
	}
	opts := []audit.Option{audit.WithSource("mcp"), audit.WithSessionID(s.sessionID)}
	if key != "" {
		opts = append(opts, audit.WithKey(key))
	}
	if err := audit.Log(filepath.Dir(path), op, filepath.Base(path), opts...); err != nil {
		s.logger.Warn("audit log failed", slog.String("path", path), slog.Any("error", err))
	}
}

func (s *Server) auditRecent(ctx context.Context, req *mcpsdk.CallToolRequest, args AuditArgs) (*mcpsdk.CallToolResult, any, error) {
	count := args.Count
	if count <= 0 {
		count = 10
	}

	entries, err := audit.Show(args.Workdir, count)
	if err != nil {
		if errors.Is(err, audit.ErrNoAuditLog) {
			return successResult(map[string]any{"entries": []any{}, "message": "No audit log found"}), nil, nil
		}
		return errorResult(err.Error()), nil, nil
	}
	return successResult(map[string]any{"entries": entries}), nil, nil
}

func (s *Server) auditVerify(ctx context.Context, req *mcpsdk.CallToolRequest, args AuditArgs) (*mcpsdk.CallToolResult, any, error) {
	result, err := audit.Verify(args.Workdir)
	if err != nil {
		if errors.Is(err, audit.ErrNoAuditLog) {
			return successResult(map[string]any{"verified": false, "message": "No audit log found"}), nil, nil
		}
		return errorResult(err.Error()), nil, nil
	}

	msg := "Audit log chain integrity verified"
	if len(result.Breaks) > 0 {
		msg = "Chain breaks detected - log may have been tampered with"
	}
	return successResult(map[string]any{
		"verified":      len(result.Breaks) == 0,
		"total_entries": result.TotalEntries,
		"breaks":        result.Breaks,
		"message":       msg,
	}), nil, nil
}
