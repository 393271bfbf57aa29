package tabular

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyExpression is returned for a blank filter expression.
var ErrEmptyExpression = errors.New("expr cannot be an empty string")

// SyntaxError reports a filter expression that could not be parsed. Pos is a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at position %d: %s", e.Pos, e.Msg)
}

// UndefinedColumnError reports a filter that names a column the table does not have.
type UndefinedColumnError struct {
	Name string
}

func (e *UndefinedColumnError) Error() string {
	return fmt.Sprintf("name '%s' is not defined", e.Name)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokQuotedIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

var twoCharOps = []string{"==", "!=", "<=", ">="}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			i = scanNumber(src, i)
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case r == '\'' || r == '"':
			s, next, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i = next
		case r == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Msg: "unterminated backtick-quoted name"}
			}
			toks = append(toks, token{kind: tokQuotedIdent, text: src[i+1 : i+1+end], pos: i})
			i += end + 2
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			op := ""
			for _, two := range twoCharOps {
				if strings.HasPrefix(src[i:], two) {
					op = two
					break
				}
			}
			if op == "" && strings.ContainsRune("<>+-*/%&|~()[],", r) {
				op = string(r)
			}
			if op == "" {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("invalid character %q", r)}
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(rune(src[i])) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(rune(src[i])) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(rune(src[j])) {
			i = j
			for i < len(src) && isDigit(rune(src[i])) {
				i++
			}
		}
	}
	return i
}

func scanString(src string, start int) (string, int, error) {
	quote := src[start]
	var b strings.Builder
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(src):
			i++
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(src[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, &SyntaxError{Pos: start, Msg: "unterminated string literal"}
}

var keywords = map[string]bool{"and": true, "or": true, "not": true, "in": true}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	switch {
	case t.kind == tokEOF:
		return &SyntaxError{Pos: t.pos, Msg: "unexpected end of expression"}
	case t.is(tokOp, ")"):
		return &SyntaxError{Pos: t.pos, Msg: "unmatched ')'"}
	case t.is(tokOp, "]"):
		return &SyntaxError{Pos: t.pos, Msg: "unmatched ']'"}
	default:
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
}

// Filter is a parsed row predicate.
type Filter struct {
	src  string
	root node
}

// ParseFilter compiles a pandas-style query expression such as
// "price > 10 and category == 'books'". Supported syntax: comparisons (chained too),
// in / not in against a list, arithmetic, and / or / not with their &, | and ~ spellings,
// parentheses, and backtick-quoted column names.
func ParseFilter(expr string) (*Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return &Filter{src: expr, root: root}, nil
}

func (f *Filter) String() string { return f.src }

// Columns returns the distinct column names the filter refers to, sorted.
func (f *Filter) Columns() []string {
	set := map[string]struct{}{}
	f.root.walk(func(n node) {
		if c, ok := n.(*columnRef); ok {
			set[c.name] = struct{}{}
		}
	})
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokIdent, "or") && !t.is(tokOp, "|") {
			return left, nil
		}
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logical{op: opOr, left: left, right: right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokIdent, "and") && !t.is(tokOp, "&") {
			return left, nil
		}
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logical{op: opAnd, left: left, right: right}
	}
}

func (p *parser) parseNot() (node, error) {
	if t := p.peek(); t.is(tokIdent, "not") || t.is(tokOp, "~") {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &negation{x: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) compareOp() (string, bool) {
	t := p.peek()
	switch {
	case t.kind == tokOp && (t.text == "==" || t.text == "!=" || t.text == "<" || t.text == "<=" || t.text == ">" || t.text == ">="):
		p.next()
		return t.text, true
	case t.is(tokIdent, "in"):
		p.next()
		return "in", true
	case t.is(tokIdent, "not") && p.toks[p.i+1].is(tokIdent, "in"):
		p.i += 2
		return "not in", true
	}
	return "", false
}

func (p *parser) parseComparison() (node, error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	c := &comparison{operands: []node{first}}
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		operand, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		c.ops = append(c.ops, op)
		c.operands = append(c.operands, operand)
	}
	if len(c.ops) == 0 {
		return first, nil
	}
	return c, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokOp, "+") && !t.is(tokOp, "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &arithmetic{op: t.text, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is(tokOp, "*") && !t.is(tokOp, "/") && !t.is(tokOp, "%") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &arithmetic{op: t.text, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.is(tokOp, "-") || t.is(tokOp, "+") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			return &arithmetic{op: "+", left: &literal{v: numberValue(0)}, right: x}, nil
		}
		return &arithmetic{op: "-", left: &literal{v: numberValue(0)}, right: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("invalid number %q", t.text)}
		}
		return &literal{v: numberValue(n)}, nil
	case tokString:
		return &literal{v: stringValue(t.text)}, nil
	case tokQuotedIdent:
		return &columnRef{name: t.text}, nil
	case tokIdent:
		switch t.text {
		case "True":
			return &literal{v: boolValue(true)}, nil
		case "False":
			return &literal{v: boolValue(false)}, nil
		case "None":
			return &literal{v: nullValue()}, nil
		}
		if keywords[t.text] {
			return nil, p.unexpected(t)
		}
		return &columnRef{name: t.text}, nil
	case tokOp:
		switch t.text {
		case "(":
			inner, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if !p.peek().is(tokOp, ")") {
				if p.peek().kind == tokEOF {
					return nil, &SyntaxError{Pos: t.pos, Msg: "'(' was never closed"}
				}
				return nil, p.unexpected(p.peek())
			}
			p.next()
			return inner, nil
		case "[":
			return p.parseList(t)
		}
	}
	return nil, p.unexpected(t)
}

func (p *parser) parseList(open token) (node, error) {
	l := &list{}
	if p.peek().is(tokOp, "]") {
		p.next()
		return l, nil
	}
	for {
		item, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		l.items = append(l.items, item)
		t := p.next()
		switch {
		case t.is(tokOp, "]"):
			return l, nil
		case t.is(tokOp, ","):
			if p.peek().is(tokOp, "]") {
				p.next()
				return l, nil
			}
		case t.kind == tokEOF:
			return nil, &SyntaxError{Pos: open.pos, Msg: "'[' was never closed"}
		default:
			return nil, p.unexpected(t)
		}
	}
}

// Filter returns the rows for which f evaluates to true. Referenced columns are
// checked before any row is evaluated.
func (t *Table) Filter(f *Filter) (*Table, error) {
	for _, name := range f.Columns() {
		if _, ok := t.column(name); !ok {
			return nil, &UndefinedColumnError{Name: name}
		}
	}
	keep := make([]int, 0, len(t.Rows))
	for i := range t.Rows {
		v, err := f.root.eval(rowEnv{table: t, row: i})
		if err != nil {
			return nil, err
		}
		switch v.kind {
		case valBool:
			if v.b {
				keep = append(keep, i)
			}
		case valNull:
		default:
			return nil, fmt.Errorf("filter must evaluate to a boolean, got %s", v.typeName())
		}
	}
	return t.subset(keep), nil
}

// Query parses expr and filters the table with it.
func (t *Table) Query(expr string) (*Table, error) {
	f, err := ParseFilter(expr)
	if err != nil {
		return nil, err
	}
	return t.Filter(f)
}
