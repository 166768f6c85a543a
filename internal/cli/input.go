// Package cli handles cmd line input and result rendering for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Geodocque/fuzzy-search/pkg/search"
	"github.com/Geodocque/fuzzy-search/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	hitStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("75"))
	metaStyle  = lipgloss.NewStyle().Faint(true)
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// InputHandler processes user input from stdin, running each line through
// the fuzzy engine and rendering ranked matches with the query's characters
// highlighted inside each name.
type InputHandler struct {
	engine       *search.Engine
	names        *search.NameIndex
	resultLimit  int
	linkTemplate string
	requestCount int
	completeMode bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *search.Engine, names *search.NameIndex, limit int, linkTemplate string, completeMode bool) *InputHandler {
	return &InputHandler{
		engine:       engine,
		names:        names,
		resultLimit:  limit,
		linkTemplate: linkTemplate,
		completeMode: completeMode,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("fuzzysearch CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a place name and press Enter to see matches (Ctrl+C to exit):")

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput processes a single query, printing either fuzzy matches or
// prefix completions depending on the configured mode.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++

	if h.completeMode {
		h.handleComplete(query)
		return
	}

	start := time.Now()
	matches := h.engine.Search(query)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(matches) == 0 {
		log.Warnf("No matches found for query: '%s'", query)
		return
	}
	if len(matches) > h.resultLimit && h.resultLimit > 0 {
		matches = matches[:h.resultLimit]
	}

	log.Printf("Found %d matches for query '%s':", len(matches), query)
	for i, m := range matches {
		name := renderHighlighted(m.Name, query)
		score := scoreStyle.Render(fmt.Sprintf("%3.0f%%", m.Score*100))
		line := fmt.Sprintf("%2d. %-50s %s", i+1, name, score)
		if m.Source == search.SourceAlt {
			line += metaStyle.Render(fmt.Sprintf("  (via %q)", m.MatchedText))
		}
		log.Print(line)
		if ctx := contextLine(m); ctx != "" {
			log.Print("    " + metaStyle.Render(ctx))
		}
		if link := server.ExpandLink(h.linkTemplate, m.OID); link != "" {
			log.Print("    " + metaStyle.Render(link))
		}
	}
}

// handleComplete prints prefix completions instead of fuzzy matches.
func (h *InputHandler) handleComplete(prefix string) {
	completions := h.names.Complete(prefix, h.resultLimit)
	if len(completions) == 0 {
		log.Warnf("No completions found for prefix: '%s'", prefix)
		return
	}
	log.Printf("Found %d completions for prefix '%s':", len(completions), prefix)
	for i, c := range completions {
		log.Printf("%2d. %s", i+1, renderHighlighted(c.Text, prefix))
	}
}

// contextLine joins a match's display-only fields for a one-line summary.
func contextLine(m search.Match) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{m.District, m.Region, m.State, m.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("oid %d", m.OID))
	return strings.Join(parts, ", ")
}

// renderHighlighted applies the engine's subsequence spans to a display
// string. Spans are rune offsets, so the text is rebuilt rune by rune.
func renderHighlighted(text, query string) string {
	spans := search.Highlight(text, query)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, span := range spans {
		if span.Start > len(runes) {
			break
		}
		end := min(span.End, len(runes))
		b.WriteString(string(runes[pos:span.Start]))
		b.WriteString(hitStyle.Render(string(runes[span.Start:end])))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}
