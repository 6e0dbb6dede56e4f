// Package orderspec parses the order expressions accepted by the CLI
// into full paragraph permutations.
//
// An expression is a comma-separated list of terms over 1-based
// paragraph positions. A term is either a single position ("3") or an
// inclusive range ("2-5"); a reversed range ("5-2") emits its positions
// in descending order. The expression must cover every position exactly
// once.
package orderspec

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// orderGrammar is the participle grammar for order expressions.
// Examples: "2,1,3", "3,1-2", "4-6,1-3", "5-1"
//
type orderGrammar struct {
	Terms []termPart `parser:"@@ ( ',' @@ )*"`
}

type termPart struct {
	Start int  `parser:"@Int"`
	End   *int `parser:"( '-' @Int )?"`
}

// orderLexer defines the lexer for order expressions.
var orderLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// orderParser is the participle parser for order expressions.
var orderParser = participle.MustBuild[orderGrammar](
	participle.Lexer(orderLexer),
	participle.Elide("Whitespace"),
)

// Resolve parses an order expression against a document with n
// paragraphs and returns the resulting permutation as 0-based indexes.
// Out-of-range positions, duplicates, and incomplete expressions are
// rejected.
func Resolve(expr string, n int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty order expression")
	}

	parsed, err := orderParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid order expression %q: %w", expr, err)
	}

	order := make([]int, 0, n)
	seen := make(map[int]bool, n)
	for _, term := range parsed.Terms {
		for _, pos := range term.positions() {
			if pos < 1 || pos > n {
				return nil, fmt.Errorf("position %d out of range 1-%d", pos, n)
			}
			if seen[pos] {
				return nil, fmt.Errorf("position %d listed twice", pos)
			}
			seen[pos] = true
			order = append(order, pos-1)
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("expression covers %d of %d positions", len(order), n)
	}
	return order, nil
}

// positions expands a term into its 1-based positions, descending for
// reversed ranges.
func (t termPart) positions() []int {
	if t.End == nil {
		return []int{t.Start}
	}

	var out []int
	if *t.End >= t.Start {
		for p := t.Start; p <= *t.End; p++ {
			out = append(out, p)
		}
	} else {
		for p := t.Start; p >= *t.End; p-- {
			out = append(out, p)
		}
	}
	return out
}
