package server

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/virtualritz/glyphana/pkg/catalog"
	"github.com/virtualritz/glyphana/pkg/glyphnames"
	"github.com/virtualritz/glyphana/pkg/search"
	"github.com/virtualritz/glyphana/pkg/tracker"
)

// Limits guard the request loop against malformed clients.
type Limits struct {
	MaxLimit    int
	MaxQueryLen int
}

// DefaultLimits returns the request guard defaults.
func DefaultLimits() Limits {
	return Limits{MaxLimit: 64, MaxQueryLen: 120}
}

// Server handles the IPC for glyph search
type Server struct {
	cat     *catalog.Catalog
	names   *glyphnames.Index
	eval    *search.Evaluator
	track   *tracker.Tracker
	limits  Limits
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a glyph search server reading requests from r and
// writing responses to w. Pass os.Stdin/os.Stdout for IPC use; logs go
// to stderr so the response stream stays clean.
func NewServer(cat *catalog.Catalog, names *glyphnames.Index, eval *search.Evaluator, track *tracker.Tracker, limits Limits, r io.Reader, w io.Writer) *Server {
	if limits.MaxLimit < 1 {
		limits.MaxLimit = DefaultLimits().MaxLimit
	}
	if limits.MaxQueryLen < 1 {
		limits.MaxQueryLen = DefaultLimits().MaxQueryLen
	}
	return &Server{
		cat:     cat,
		names:   names,
		eval:    eval,
		track:   track,
		limits:  limits,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting server.")

	// Signal that the server is ready
	s.sendResponse(StatusResponse{Status: "ready", CatalogSize: s.cat.Size()})

	for {
		var request SearchRequest
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request
func (s *Server) handleRequest(request SearchRequest) {
	switch request.Command {
	case "search":
		s.handleSearch(request)
	case "inspect":
		s.handleInspect(request)
	case "collect":
		s.handleCollect(request, true)
	case "uncollect":
		s.handleCollect(request, false)
	case "collection":
		s.sendCollection(request.ID)
	case "health":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

// sendResponse encodes the given response and flushes it to the client.
func (s *Server) sendResponse(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(SearchError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// handleSearch processes a search request. It validates the query,
// evaluates it against the indices, applies the scope filter, and sends
// the ranked glyphs with timing info.
func (s *Server) handleSearch(request SearchRequest) {
	if request.Query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}
	if len(request.Query) > s.limits.MaxQueryLen {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d bytes", s.limits.MaxQueryLen), 400)
		log.Debug("Query is too long in request")
		return
	}
	scope, ok := parseScope(request.Scope)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown scope: %s", request.Scope), 400)
		return
	}

	limit := request.Limit
	if limit < 1 || limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}

	start := time.Now()
	result := s.eval.Evaluate(search.NewQuery(request.Query, request.CaseSensitive))
	matches := search.FilterScope(result.Matches, scope, func(r rune) bool {
		return s.track.Member(r, scope == search.ScopeCollection)
	})
	elapsed := time.Since(start)

	if len(matches) > limit {
		matches = matches[:limit]
	}

	glyphs := make([]GlyphResult, len(matches))
	for i, m := range matches {
		glyphs[i] = GlyphResult{
			Codepoint: int64(m.Record.Rune),
			Char:      string(m.Record.Rune),
			Name:      m.Record.DisplayName(),
			Category:  m.Record.Category,
			Block:     m.Record.Block,
			Score:     m.Score,
		}
	}

	s.sendResponse(SearchResponse{
		ID:        request.ID,
		Glyphs:    glyphs,
		Count:     len(glyphs),
		Dropped:   result.Dropped,
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleInspect resolves one codepoint, records it as recently
// inspected, and returns its attributes.
func (s *Server) handleInspect(request SearchRequest) {
	r := rune(request.Codepoint)
	if request.Codepoint < 0 || request.Codepoint > utf8.MaxRune {
		s.sendError(request.ID, fmt.Sprintf("Codepoint out of range: %d", request.Codepoint), 400)
		return
	}
	rec, ok := s.cat.Lookup(r)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Codepoint not in catalog: U+%04X", request.Codepoint), 404)
		return
	}
	s.track.Touch(r)

	s.sendResponse(InspectResponse{
		ID:        request.ID,
		Codepoint: request.Codepoint,
		Char:      string(rec.Rune),
		Name:      rec.DisplayName(),
		Category:  rec.Category,
		Block:     rec.Block,
		UTF8Len:   rec.UTF8Len,
		Collected: s.track.Collected(r),
		Aliases:   s.names.NamesFor(r),
	})
}

func (s *Server) handleCollect(request SearchRequest, add bool) {
	r := rune(request.Codepoint)
	if _, ok := s.cat.Lookup(r); !ok {
		s.sendError(request.ID, fmt.Sprintf("Codepoint not in catalog: U+%04X", request.Codepoint), 404)
		return
	}
	var changed bool
	if add {
		changed = s.track.Collect(r)
	} else {
		changed = s.track.Uncollect(r)
	}
	status := "unchanged"
	if changed {
		status = "ok"
	}
	s.sendResponse(CollectionResponse{ID: request.ID, Status: status})
}

func (s *Server) sendCollection(id string) {
	runes := s.track.Collection()
	members := make([]int64, len(runes))
	for i, r := range runes {
		members[i] = int64(r)
	}
	s.sendResponse(CollectionResponse{ID: id, Status: "ok", Members: members})
}

func parseScope(raw string) (search.Scope, bool) {
	switch raw {
	case "", "all":
		return search.ScopeAll, true
	case "recent":
		return search.ScopeRecent, true
	case "collection":
		return search.ScopeCollection, true
	}
	return search.ScopeAll, false
}
