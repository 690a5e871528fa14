package parser

import "io"

// ParseString scans and parses Lox source text. Lexical and syntax errors are
// returned together, lexical ones first.
func ParseString(src string, ids *IDGen) ([]Stmt, Diagnostics) {
	tokens, diags := Scan(src)
	stmts, parseDiags := Parse(tokens, ids)
	return stmts, append(diags, parseDiags...)
}

// ParseReader consumes Lox source from an io.Reader and parses it.
func ParseReader(r io.Reader, ids *IDGen) ([]Stmt, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	stmts, diags := ParseString(string(data), ids)
	return stmts, diags.Err()
}
