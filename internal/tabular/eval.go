package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind int

const (
	valNull valueKind = iota
	valBool
	valNumber
	valString
	valList
)

type value struct {
	kind valueKind
	b    bool
	n    float64
	s    string
	list []value
}

func nullValue() value             { return value{kind: valNull} }
func boolValue(b bool) value       { return value{kind: valBool, b: b} }
func numberValue(n float64) value  { return value{kind: valNumber, n: n} }
func stringValue(s string) value   { return value{kind: valString, s: s} }
func listValue(items []value) value { return value{kind: valList, list: items} }

func (v value) typeName() string {
	switch v.kind {
	case valBool:
		return "bool"
	case valNumber:
		if math.Trunc(v.n) == v.n && !math.IsInf(v.n, 0) {
			return "int"
		}
		return "float"
	case valString:
		return "str"
	case valList:
		return "list"
	default:
		return "NoneType"
	}
}

// numeric reports v as a float, treating booleans as 0 and 1.
func (v value) numeric() (float64, bool) {
	switch v.kind {
	case valNumber:
		return v.n, true
	case valBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

type rowEnv struct {
	table *Table
	row   int
}

func (e rowEnv) cell(name string) value {
	col := e.table.pos[name]
	raw := e.table.Rows[e.row][col]
	switch e.table.kinds[col] {
	case kindNumeric:
		if isMissing(raw) {
			return numberValue(math.NaN())
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return numberValue(math.NaN())
		}
		return numberValue(n)
	case kindBoolean:
		if isMissing(raw) {
			return nullValue()
		}
		return boolValue(booleanValues[strings.TrimSpace(raw)])
	default:
		if isMissing(raw) {
			return nullValue()
		}
		return stringValue(raw)
	}
}

type node interface {
	eval(env rowEnv) (value, error)
	walk(fn func(node))
}

type literal struct{ v value }

func (n *literal) eval(rowEnv) (value, error) { return n.v, nil }
func (n *literal) walk(fn func(node))         { fn(n) }

type columnRef struct{ name string }

func (n *columnRef) eval(env rowEnv) (value, error) { return env.cell(n.name), nil }
func (n *columnRef) walk(fn func(node))             { fn(n) }

type list struct{ items []node }

func (n *list) eval(env rowEnv) (value, error) {
	items := make([]value, len(n.items))
	for i, item := range n.items {
		v, err := item.eval(env)
		if err != nil {
			return value{}, err
		}
		items[i] = v
	}
	return listValue(items), nil
}

func (n *list) walk(fn func(node)) {
	fn(n)
	for _, item := range n.items {
		item.walk(fn)
	}
}

type negation struct{ x node }

func (n *negation) eval(env rowEnv) (value, error) {
	v, err := n.x.eval(env)
	if err != nil {
		return value{}, err
	}
	switch v.kind {
	case valBool:
		return boolValue(!v.b), nil
	case valNull:
		return nullValue(), nil
	}
	return value{}, fmt.Errorf("bad operand type for unary ~: '%s'", v.typeName())
}

func (n *negation) walk(fn func(node)) {
	fn(n)
	n.x.walk(fn)
}

type logicalOp int

const (
	opAnd logicalOp = iota
	opOr
)

type logical struct {
	op          logicalOp
	left, right node
}

func (n *logical) eval(env rowEnv) (value, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return value{}, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return value{}, err
	}
	sym := "&"
	if n.op == opOr {
		sym = "|"
	}
	lb, lok := truth(l)
	rb, rok := truth(r)
	if !lok || !rok {
		return value{}, fmt.Errorf("unsupported operand type(s) for %s: '%s' and '%s'", sym, l.typeName(), r.typeName())
	}
	if n.op == opAnd {
		return boolValue(lb && rb), nil
	}
	return boolValue(lb || rb), nil
}

func (n *logical) walk(fn func(node)) {
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

// truth converts a logical operand; missing values count as false.
func truth(v value) (bool, bool) {
	switch v.kind {
	case valBool:
		return v.b, true
	case valNull:
		return false, true
	}
	return false, false
}

type comparison struct {
	ops      []string
	operands []node
}

func (n *comparison) eval(env rowEnv) (value, error) {
	left, err := n.operands[0].eval(env)
	if err != nil {
		return value{}, err
	}
	for i, op := range n.ops {
		right, err := n.operands[i+1].eval(env)
		if err != nil {
			return value{}, err
		}
		ok, err := compare(op, left, right)
		if err != nil {
			return value{}, err
		}
		if !ok {
			return boolValue(false), nil
		}
		left = right
	}
	return boolValue(true), nil
}

func (n *comparison) walk(fn func(node)) {
	fn(n)
	for _, o := range n.operands {
		o.walk(fn)
	}
}

func compare(op string, l, r value) (bool, error) {
	switch {
	case op == "in" || op == "not in":
		found, err := contains(r, l)
		if err != nil {
			return false, err
		}
		return found == (op == "in"), nil
	case r.kind == valList && (op == "==" || op == "!="):
		found, _ := contains(r, l)
		return found == (op == "=="), nil
	case l.kind == valList && (op == "==" || op == "!="):
		found, _ := contains(l, r)
		return found == (op == "=="), nil
	case op == "==":
		return equal(l, r), nil
	case op == "!=":
		return !equal(l, r), nil
	}

	if l.kind == valNull || r.kind == valNull {
		return false, nil
	}
	if ln, ok := l.numeric(); ok {
		if rn, ok := r.numeric(); ok {
			switch op {
			case "<":
				return ln < rn, nil
			case "<=":
				return ln <= rn, nil
			case ">":
				return ln > rn, nil
			default:
				return ln >= rn, nil
			}
		}
	}
	if l.kind == valString && r.kind == valString {
		switch op {
		case "<":
			return l.s < r.s, nil
		case "<=":
			return l.s <= r.s, nil
		case ">":
			return l.s > r.s, nil
		default:
			return l.s >= r.s, nil
		}
	}
	return false, fmt.Errorf("'%s' not supported between instances of '%s' and '%s'", op, l.typeName(), r.typeName())
}

func contains(haystack, needle value) (bool, error) {
	if haystack.kind != valList {
		return false, fmt.Errorf("argument of type '%s' is not iterable", haystack.typeName())
	}
	for _, item := range haystack.list {
		if equal(needle, item) {
			return true, nil
		}
	}
	return false, nil
}

func equal(l, r value) bool {
	if l.kind == valNull || r.kind == valNull {
		return false
	}
	if ln, ok := l.numeric(); ok {
		if rn, ok := r.numeric(); ok {
			return ln == rn
		}
		return false
	}
	if l.kind == valString && r.kind == valString {
		return l.s == r.s
	}
	return false
}

type arithmetic struct {
	op          string
	left, right node
}

func (n *arithmetic) eval(env rowEnv) (value, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return value{}, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return value{}, err
	}
	if l.kind == valNull || r.kind == valNull {
		return nullValue(), nil
	}
	if n.op == "+" && l.kind == valString && r.kind == valString {
		return stringValue(l.s + r.s), nil
	}
	ln, lok := l.numeric()
	rn, rok := r.numeric()
	if !lok || !rok {
		return value{}, fmt.Errorf("unsupported operand type(s) for %s: '%s' and '%s'", n.op, l.typeName(), r.typeName())
	}
	switch n.op {
	case "+":
		return numberValue(ln + rn), nil
	case "-":
		return numberValue(ln - rn), nil
	case "*":
		return numberValue(ln * rn), nil
	case "/":
		return numberValue(ln / rn), nil
	default:
		return numberValue(floorMod(ln, rn)), nil
	}
}

func (n *arithmetic) walk(fn func(node)) {
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

// floorMod takes the sign of the divisor, matching Python's % operator.
func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
