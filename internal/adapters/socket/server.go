package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/corey/bmsearch/internal/domain/trace"
	"github.com/corey/bmsearch/internal/domain/verify"
	"github.com/corey/bmsearch/internal/ports"
)

// AppQueries gives server handlers access to app-owned state.
// Thread safety is the implementor's responsibility.
type AppQueries interface {
	Root() string
	// RecordSearch is called after every successful search request.
	RecordSearch(params SearchParams, result *SearchResult)
}

// Server is the daemon that listens on a Unix socket and serves search requests.
type Server struct {
	verifier ports.Verifier
	queries  AppQueries
	listener net.Listener
	sockPath string
	started  time.Time
	debug    bool

	requests atomic.Int64
	searches atomic.Int64

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server. verifier and queries may be nil; a
// search asking for verification then fails.
func NewServer(sockPath string, verifier ports.Verifier, queries AppQueries) *Server {
	return &Server{
		verifier:   verifier,
		queries:    queries,
		sockPath:   sockPath,
		debug:      os.Getenv("BMSEARCH_DEBUG") == "1",
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. A socket file nobody answers
// on is treated as stale and removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop closes the listener, waits for open connections and removes the
// socket file. Safe to call more than once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh is closed when a remote shutdown request is received. The
// daemon's main goroutine selects on it alongside OS signals.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		s.requests.Add(1)
		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodSearch:
		return s.handleSearch(req)
	case MethodTables:
		return s.handleTables(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

// decodeParams re-marshals the generic params into a typed struct.
func decodeParams(req Request, v interface{}) error {
	data, err := json.Marshal(req.Params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func resolveAlphabet(name string) (*boyermoore.Alphabet, error) {
	if name == "" {
		return boyermoore.Bytes, nil
	}
	return boyermoore.AlphabetByName(name)
}

func (s *Server) handleSearch(req Request) Response {
	var params SearchParams
	if err := decodeParams(req, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid search params"}
	}

	start := time.Now()
	result, err := s.search(params)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	elapsed := time.Since(start)
	result.Elapsed = elapsed.String()

	// The client cannot read a line over maxMessage, so an oversized result
	// is refused before it is recorded.
	resp := Response{ID: req.ID, Result: result}
	if size := encodedSize(resp); size >= maxMessage {
		return Response{ID: req.ID, Error: fmt.Sprintf(
			"result too large for the socket (%d bytes, max %d); search locally", size, maxMessage)}
	}
	s.searches.Add(1)

	if s.debug {
		fmt.Printf("[%s] [debug] search source=%s text_len=%d matches=%d steps=%d elapsed=%v\n",
			time.Now().Format(time.RFC3339), result.Source, result.Summary.TextLen,
			result.Count, result.Summary.Steps, elapsed)
	}
	if s.queries != nil {
		s.queries.RecordSearch(params, result)
	}
	return resp
}

// encodedSize is the length of resp on the wire, without the newline.
func encodedSize(resp Response) int {
	data, err := json.Marshal(resp)
	if err != nil {
		return maxMessage
	}
	return len(data)
}

func (s *Server) search(params SearchParams) (*SearchResult, error) {
	text, source := params.Text, "<text>"
	switch {
	case params.Path != "" && params.Text != nil:
		return nil, fmt.Errorf("text and path are mutually exclusive")
	case params.Path != "":
		data, err := os.ReadFile(params.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", params.Path, err)
		}
		text, source = data, params.Path
	}

	alphabet, err := resolveAlphabet(params.Alphabet)
	if err != nil {
		return nil, err
	}
	m, err := boyermoore.Compile(params.Pattern, boyermoore.WithAlphabet(alphabet))
	if err != nil {
		return nil, err
	}
	res, sum, err := trace.Scan(m, text, params.Events)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Source:     source,
		Alphabet:   alphabet.Name(),
		Matches:    res.Matches,
		Count:      len(res.Matches),
		Degenerate: res.Degenerate,
		Summary:    *sum,
		Events:     res.Events,
		ExitCode:   ExitCodeFor(res),
	}
	if result.Matches == nil {
		result.Matches = []int{}
	}

	if params.Verify && res.Degenerate == boyermoore.NotDegenerate {
		if s.verifier == nil {
			return nil, fmt.Errorf("verification not available")
		}
		if err := verify.Check(s.verifier, text, params.Pattern, res.Matches); err != nil {
			return nil, err
		}
		result.Verified = true
	}
	return result, nil
}

func (s *Server) handleTables(req Request) Response {
	var params TablesParams
	if err := decodeParams(req, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid tables params"}
	}
	alphabet, err := resolveAlphabet(params.Alphabet)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	m, err := boyermoore.Compile(params.Pattern, boyermoore.WithAlphabet(alphabet))
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: TablesFor(m)}
}

// TablesFor collects both shift tables of a compiled pattern.
func TablesFor(m *boyermoore.Matcher) TablesResult {
	return TablesResult{
		Pattern:      m.Pattern(),
		Length:       m.Len(),
		BadCharacter: m.BadChar().Entries(),
		GoodSuffix:   m.GoodSuffix(),
	}
}

func (s *Server) handleHealth(req Request) Response {
	result := HealthResult{
		Status:   "ok",
		Requests: s.requests.Load(),
		Searches: s.searches.Load(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	if s.queries != nil {
		result.ProjectRoot = s.queries.Root()
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
