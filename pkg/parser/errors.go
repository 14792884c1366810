package parser

import (
	"fmt"

	"github.com/glimtools/glimtok/pkg/position"
)

// SyntaxError reports malformed template input. Extraction is all-or-nothing:
// when a SyntaxError is returned no partial tree is produced.
type SyntaxError struct {
	Msg    string
	Offset int
	Pos    position.Place
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}
