package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xmazu/envq/internal/edit"
	"github.com/xmazu/envq/internal/envfile"
)

func successResult(data any) *mcpsdk.CallToolResult {
	b, _ := json.Marshal(data)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(b)}},
	}
}

func errorResult(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "error: " + msg}},
		IsError: true,
	}
}

// FileArgs selects the file a tool works on.
type FileArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"env file path, absolute or relative to workdir (default: nearest .env in workdir or its parents)"`
	Workdir string `json:"workdir,omitempty" jsonschema:"directory to resolve path against (default: current)"`
}

func (a FileArgs) resolve() (string, error) {
	if a.Path == "" {
		return edit.FindInParents(a.Workdir, edit.MaxSearchDepth)
	}
	path, err := edit.ResolvePath(a.Path, a.Workdir)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (a FileArgs) load() (string, *envfile.Document, error) {
	path, err := a.resolve()
	if err != nil {
		return "", nil, err
	}
	doc, err := edit.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, doc, nil
}

// toolError turns a failure into a tool result the model can read. Missing
// keys are reported by name rather than with the wrapped operation text.
func toolError(err error) *mcpsdk.CallToolResult {
	var opErr *envfile.OperationError
	if errors.As(err, &opErr) && errors.Is(err, envfile.ErrKeyNotFound) {
		return errorResult(fmt.Sprintf("key %q not found", opErr.Key))
	}
	return errorResult(err.Error())
}
