// Package cli handles the interactive terminal loop for trying queries
// against the glyph engine without a client.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/virtualritz/glyphana/pkg/search"
)

// InputHandler processes user input from stdin, evaluating each line as
// a glyph query and printing the ranked matches.
type InputHandler struct {
	eval          *search.Evaluator
	maxQueryLen   int
	resultLimit   int
	caseSensitive bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(eval *search.Evaluator, maxQueryLen, limit int, caseSensitive bool) *InputHandler {
	return &InputHandler{
		eval:          eval,
		maxQueryLen:   maxQueryLen,
		resultLimit:   limit,
		caseSensitive: caseSensitive,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and
// passes the trimmed query to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("glyphana query console")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a query and press Enter to see matching glyphs (Ctrl+C to exit):")

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

// handleInput evaluates a single query and prints the ranked matches
// with their source and score.
func (h *InputHandler) handleInput(query string) {
	if len(query) > h.maxQueryLen {
		log.Errorf("Query too long: %s", query)
		return
	}

	start := time.Now()
	result := h.eval.Evaluate(search.NewQuery(query, h.caseSensitive))
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(result.Dropped) > 0 {
		log.Warnf("No matches for: %s", strings.Join(result.Dropped, ", "))
	}
	if len(result.Matches) == 0 {
		log.Warnf("No glyphs found for query: '%s'", query)
		return
	}

	matches := result.Matches
	if len(matches) > h.resultLimit {
		matches = matches[:h.resultLimit]
	}
	log.Printf("Found %d glyphs for query '%s':", len(result.Matches), query)
	for i, m := range matches {
		clGlyph := fmt.Sprintf("\033[38;5;75m%s\033[0m", string(m.Record.Rune))
		log.Printf("%2d. %s  %s  %-40s (%s, %.2f)",
			i+1, m.Record.Hex(), clGlyph, m.Record.DisplayName(), m.Sources, m.Score)
	}
}
