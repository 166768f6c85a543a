package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Geodocque/fuzzy-search/internal/logger"
	"github.com/Geodocque/fuzzy-search/pkg/config"
	"github.com/Geodocque/fuzzy-search/pkg/gazetteer"
	"github.com/Geodocque/fuzzy-search/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for place-name lookups.
type Server struct {
	engine  *search.Engine
	names   *search.NameIndex
	cfg     *config.Config
	dataDir string

	dec *msgpack.Decoder
	enc *msgpack.Encoder
	log *log.Logger

	requestCount int
}

// NewServer creates a lookup server reading requests from r and writing
// responses to w. Production use wires stdin/stdout; tests wire buffers.
func NewServer(engine *search.Engine, names *search.NameIndex, cfg *config.Config, dataDir string, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine:  engine,
		names:   names,
		cfg:     cfg,
		dataDir: dataDir,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
		log:     logger.New("ipc"),
	}
}

// Start begins listening for IPC requests. Returns nil on clean EOF.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request.
func (s *Server) handleRequest(request Request) {
	s.requestCount++

	switch request.Cmd {
	case "", "search":
		s.handleSearch(request)
	case "complete":
		s.handleComplete(request)
	case "info":
		s.handleInfo(request)
	case "reload":
		s.handleReload(request)
	case "ping":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// handleSearch runs the fuzzy pipeline for one query. The engine itself
// never errors; only protocol-level problems (missing or oversized query)
// are rejected.
func (s *Server) handleSearch(request Request) {
	query := request.Query
	if query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		s.log.Debug("Query is empty in request")
		return
	}
	if utf8.RuneCountInString(query) > s.cfg.Server.MaxQueryLen {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxQueryLen), 400)
		s.log.Debug("Query is too long in request")
		return
	}

	limit := s.clampLimit(request.Limit)

	start := time.Now()
	matches := s.engine.Search(query)
	elapsed := time.Since(start)

	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]ResultEntry, len(matches))
	for i, m := range matches {
		results[i] = ResultEntry{
			OID:         m.OID,
			Name:        m.Name,
			AltNames:    m.AltNames,
			Country:     m.Country,
			State:       m.State,
			Region:      m.Region,
			District:    m.District,
			Score:       m.Score,
			Source:      m.Source.String(),
			MatchedText: m.MatchedText,
			Link:        ExpandLink(s.cfg.Server.LinkTemplate, m.OID),
		}
	}

	s.send(SearchResponse{
		ID:        request.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleComplete answers a prefix completion request from the name index.
func (s *Server) handleComplete(request Request) {
	if request.Query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		return
	}

	limit := s.clampLimit(request.Limit)

	start := time.Now()
	completions := s.names.Complete(request.Query, limit)
	elapsed := time.Since(start)

	entries := make([]CompletionEntry, len(completions))
	for i, c := range completions {
		oid := 0
		if rec := s.engine.Dataset().At(c.ID); rec != nil {
			oid = rec.OID
		}
		entries[i] = CompletionEntry{OID: oid, Text: c.Text}
	}

	s.send(CompleteResponse{
		ID:          request.ID,
		Completions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleInfo reports snapshot stats.
func (s *Server) handleInfo(request Request) {
	ds := s.engine.Dataset()
	s.send(InfoResponse{
		ID:       request.ID,
		Status:   "ok",
		Records:  ds.Len(),
		Trigrams: len(ds.Index),
	})
}

// handleReload replaces the snapshot from the data directory. The serving
// loop is single-threaded, so the swap happens strictly between queries.
func (s *Server) handleReload(request Request) {
	if s.dataDir == "" {
		s.send(StatusResponse{ID: request.ID, Status: "error", Error: "no data directory configured"})
		return
	}

	ds, err := gazetteer.Load(s.dataDir)
	if err != nil {
		s.log.Errorf("Reload failed: %v", err)
		s.send(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	if ds.Index == nil {
		ds.Index = search.BuildIndex(ds.Records)
	}

	s.engine.SwapDataset(ds)
	s.names = search.NewNameIndex(ds.Records)
	s.log.Debugf("Snapshot reloaded: %d records", ds.Len())
	s.send(StatusResponse{ID: request.ID, Status: "ok"})
}

// clampLimit keeps a client-requested result count inside configured bounds.
func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		limit = s.cfg.Search.MaxResults
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}
	return limit
}

// send encodes one response onto the wire.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// ExpandLink substitutes a record's oid into an outbound URL template.
// Returns "" when no template is configured.
func ExpandLink(template string, oid int) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{oid}", strconv.Itoa(oid))
}
