/*
Package server implements msgpack IPC for glyph search services.

The server package provides a minimal interface for Unicode glyph lookup
using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports search requests,
glyph inspection, and collection management ops. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field and other fields based on the
operation type.

Search requests use mainly this structure:

	{"id": "req_001", "cmd": "search", "q": "greek alpha", "l": 24}

The server responds with glyphs ranked by match quality:

	{"id": "req_001", "g": [{"cp": 945, "ch": "α", "n": "Greek Small Letter Alpha", "sc": 1.0}], "c": 1, "t": 145}

Inspection and collection management address single codepoints:

	{"id": "ins_001", "cmd": "inspect", "cp": 945}
	{"id": "col_001", "cmd": "collect", "cp": 945}

Response structures include status information and error details when an
op fails.

Queries can be scoped to the recent list or the collection via the
"scope" field ("all", "recent", "collection").

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency by ~40 to 70% in most cases.
*/
package server

// SearchRequest - glyph search request
type SearchRequest struct {
	ID            string `msgpack:"id"`
	Command       string `msgpack:"cmd"`
	Query         string `msgpack:"q,omitempty"`
	Limit         int    `msgpack:"l,omitempty"`
	Scope         string `msgpack:"scope,omitempty"`
	CaseSensitive bool   `msgpack:"cs,omitempty"`
	Codepoint     int64  `msgpack:"cp,omitempty"`
}

// GlyphResult - one ranked glyph in a search response
type GlyphResult struct {
	Codepoint int64   `msgpack:"cp"`
	Char      string  `msgpack:"ch"`
	Name      string  `msgpack:"n"`
	Category  string  `msgpack:"cat,omitempty"`
	Block     string  `msgpack:"b,omitempty"`
	Score     float64 `msgpack:"sc"`
}

// SearchResponse - search response with ranked glyphs
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Glyphs    []GlyphResult `msgpack:"g"`
	Count     int           `msgpack:"c"`
	Dropped   []string      `msgpack:"d,omitempty"`
	TimeTaken int64         `msgpack:"t"`
}

// InspectResponse - single glyph detail response
type InspectResponse struct {
	ID        string   `msgpack:"id"`
	Codepoint int64    `msgpack:"cp"`
	Char      string   `msgpack:"ch"`
	Name      string   `msgpack:"n"`
	Category  string   `msgpack:"cat"`
	Block     string   `msgpack:"b"`
	UTF8Len   int      `msgpack:"u8"`
	Collected bool     `msgpack:"col"`
	Aliases   []string `msgpack:"al,omitempty"`
}

// CollectionResponse - collection operation response
type CollectionResponse struct {
	ID      string  `msgpack:"id"`
	Status  string  `msgpack:"status"`
	Error   string  `msgpack:"error,omitempty"`
	Members []int64 `msgpack:"members,omitempty"`
}

// StatusResponse - readiness and health payload
type StatusResponse struct {
	ID          string `msgpack:"id,omitempty"`
	Status      string `msgpack:"status"`
	CatalogSize int    `msgpack:"catalog_size,omitempty"`
}

// SearchError holds basic error information for failed requests
type SearchError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
