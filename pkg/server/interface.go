/*
Package server implements msgpack IPC for fuzzy place-name lookups.

The protocol is request/response over stdin/stdout with binary msgpack
encoding. Requests are processed synchronously, one at a time, and every
response echoes the request id so a driving editor or UI can discard replies
to queries it has already superseded.

A fuzzy search request:

	{"id": "req_001", "q": "asmera", "l": 10}

is answered with matches ranked by similarity:

	{"id": "req_001", "r": [{"oid": 17, "n": "Asmara", "sc": 0.83, "src": "name", "m": "Asmara"}], "c": 1, "t": 412}

Prefix completion narrows while the user is still typing:

	{"id": "req_002", "cmd": "complete", "q": "asm", "l": 5}

Management commands cover snapshot introspection and replacement:

	{"id": "ds_001", "cmd": "info"}
	{"id": "ds_002", "cmd": "reload"}

reload swaps the dataset between requests; the serving loop is
single-threaded so no locking is involved.
*/
package server

// Request is the single envelope for every client message. Cmd selects the
// operation; empty means fuzzy search.
type Request struct {
	ID    string `msgpack:"id"`
	Cmd   string `msgpack:"cmd,omitempty"` // "search" (default), "complete", "info", "reload", "ping"
	Query string `msgpack:"q,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
}

// ResultEntry is one ranked match in a search response. The context fields
// pass through from the record untouched; Link is the templated outbound URL
// when the server has a link template configured.
type ResultEntry struct {
	OID         int      `msgpack:"oid"`
	Name        string   `msgpack:"n"`
	AltNames    []string `msgpack:"a,omitempty"`
	Country     string   `msgpack:"co,omitempty"`
	State       string   `msgpack:"st,omitempty"`
	Region      string   `msgpack:"rg,omitempty"`
	District    string   `msgpack:"di,omitempty"`
	Score       float64  `msgpack:"sc"`
	Source      string   `msgpack:"src"`
	MatchedText string   `msgpack:"m"`
	Link        string   `msgpack:"u,omitempty"`
}

// SearchResponse answers a fuzzy search request. TimeTaken is microseconds.
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Results   []ResultEntry `msgpack:"r"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// CompletionEntry is one prefix completion hit.
type CompletionEntry struct {
	OID  int    `msgpack:"oid"`
	Text string `msgpack:"w"`
}

// CompleteResponse answers a prefix completion request.
type CompleteResponse struct {
	ID          string            `msgpack:"id"`
	Completions []CompletionEntry `msgpack:"s"`
	Count       int               `msgpack:"c"`
	TimeTaken   int64             `msgpack:"t"`
}

// InfoResponse describes the currently loaded snapshot.
type InfoResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	Records  int    `msgpack:"records"`
	Trigrams int    `msgpack:"trigrams"`
}

// StatusResponse acknowledges ping and reload requests.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for rejected requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
