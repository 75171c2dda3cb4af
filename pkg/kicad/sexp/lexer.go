package sexp

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits KiCad s-expression files into tokens. Everything that is
// neither a parenthesis nor a quoted string is an atom, so numbers, layer
// wildcards like *.Cu and keywords all share one token type.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
})
