// Package socket implements a JSON-over-Unix-socket protocol for the bmsearch daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/bmsearch-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/bmsearch-%x.sock", h[:6])
}

// maxMessage bounds a single request or response line.
const maxMessage = 1024 * 1024

// Method names for the protocol.
const (
	MethodSearch   = "search"
	MethodTables   = "tables"
	MethodHealth   = "health"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SearchParams is the params for a search request. Exactly one of Text and
// Path supplies the haystack; Path is read by the daemon. Byte fields travel
// as base64 so arbitrary binary survives JSON.
type SearchParams struct {
	Pattern  []byte `json:"pattern"`
	Text     []byte `json:"text,omitempty"`
	Path     string `json:"path,omitempty"`
	Alphabet string `json:"alphabet,omitempty"`
	Events   bool   `json:"events,omitempty"`
	Verify   bool   `json:"verify,omitempty"`
}

// SearchResult is the result of a search request.
type SearchResult struct {
	Source     string                `json:"source"`
	Alphabet   string                `json:"alphabet"`
	Matches    []int                 `json:"matches"`
	Count      int                   `json:"count"`
	Degenerate boyermoore.Degenerate `json:"degenerate"`
	Summary    trace.Summary         `json:"summary"`
	Events     []boyermoore.Event    `json:"events,omitempty"`
	Verified   bool                  `json:"verified,omitempty"`
	ExitCode   int                   `json:"exit_code"`
	Elapsed    string                `json:"elapsed"`
}

// TablesParams is the params for a tables request.
type TablesParams struct {
	Pattern  []byte `json:"pattern"`
	Alphabet string `json:"alphabet,omitempty"`
}

// TablesResult carries both shift tables for a pattern. BadCharacter lists
// only the bytes present in the pattern.
type TablesResult struct {
	Pattern      []byte                    `json:"pattern"`
	Length       int                       `json:"length"`
	BadCharacter []boyermoore.BadCharEntry `json:"bad_character"`
	GoodSuffix   []int                     `json:"good_suffix"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status      string `json:"status"`
	ProjectRoot string `json:"project_root,omitempty"`
	Requests    int64  `json:"requests"`
	Searches    int64  `json:"searches"`
	Uptime      string `json:"uptime"`
}

// Exit codes carried in SearchResult, grep style.
const (
	ExitMatch   = 0
	ExitNoMatch = 1
	ExitError   = 2
)

// ExitCodeFor maps a scan result to its exit code. Degenerate input is an
// error from the caller's point of view.
func ExitCodeFor(res *boyermoore.Result) int {
	switch {
	case res.Degenerate != boyermoore.NotDegenerate:
		return ExitError
	case res.Found():
		return ExitMatch
	default:
		return ExitNoMatch
	}
}
