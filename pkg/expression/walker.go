// Package expression compiles filter expressions such as
// `Amount > 1000 && Stage != 'Lost'` into SQL conditions.
package expression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Options controls how an expression is rendered
type Options struct {
	// Quote quotes identifiers; required
	Quote func(name string) string

	// Columns, when non-nil, restricts identifiers to these names
	Columns map[string]bool

	// Inline renders literals into the SQL text instead of binding them
	Inline bool

	// QuoteLiteral renders inlined string literals; ANSI quoting when nil
	QuoteLiteral func(s string) string
}

// SQLWalker converts an expr AST to SQL
type SQLWalker struct {
	opts    Options
	builder strings.Builder
	args    []interface{}
	err     error
}

// isNilNode checks if a node represents a null/nil value
// In expr-lang, null can be either a NilNode or an IdentifierNode with value "null", "nil", or "NULL"
func isNilNode(node ast.Node) bool {
	if _, ok := node.(*ast.NilNode); ok {
		return true
	}
	if id, ok := node.(*ast.IdentifierNode); ok {
		val := strings.ToLower(id.Value)
		return val == "null" || val == "nil"
	}
	return false
}

var binaryOperators = map[string]string{
	"==": "=", "!=": "!=", "<": "<", ">": ">", "<=": "<=", ">=": ">=",
	"&&": "AND", "and": "AND", "||": "OR", "or": "OR",
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%",
}

// ToSQL converts an expression string to a SQL condition and its bound arguments
func ToSQL(expression string, opts Options) (string, []interface{}, error) {
	if opts.Quote == nil {
		return "", nil, fmt.Errorf("expression: quote function required")
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse expression: %w", err)
	}

	walker := &SQLWalker{
		opts: opts,
		args: make([]interface{}, 0),
	}

	walker.walk(&tree.Node)

	if walker.err != nil {
		return "", nil, walker.err
	}

	return walker.builder.String(), walker.args, nil
}

func (w *SQLWalker) walk(node *ast.Node) {
	if w.err != nil {
		return
	}
	if node == nil || *node == nil {
		return
	}

	n := *node

	switch v := n.(type) {
	case *ast.BinaryNode:
		w.visitBinary(v)
	case *ast.UnaryNode:
		w.visitUnary(v)
	case *ast.IdentifierNode:
		w.visitIdentifier(v)
	case *ast.IntegerNode:
		w.literal(v.Value, strconv.Itoa(v.Value))
	case *ast.FloatNode:
		w.literal(v.Value, strconv.FormatFloat(v.Value, 'f', -1, 64))
	case *ast.StringNode:
		w.literal(v.Value, w.quoteString(v.Value))
	case *ast.BoolNode:
		if v.Value {
			w.literal(true, "TRUE")
		} else {
			w.literal(false, "FALSE")
		}
	case *ast.NilNode:
		w.builder.WriteString("NULL")
	case *ast.CallNode:
		w.visitCall(v)
	default:
		w.err = fmt.Errorf("unsupported node type: %T", n)
	}
}

func (w *SQLWalker) literal(value interface{}, inline string) {
	if w.opts.Inline {
		w.builder.WriteString(inline)
		return
	}
	w.builder.WriteString("?")
	w.args = append(w.args, value)
}

func (w *SQLWalker) visitIdentifier(node *ast.IdentifierNode) {
	if isNilNode(node) {
		w.builder.WriteString("NULL")
		return
	}
	if w.opts.Columns != nil && !w.opts.Columns[node.Value] {
		w.err = fmt.Errorf("unknown column in expression: %s", node.Value)
		return
	}
	w.builder.WriteString(w.opts.Quote(node.Value))
}

func (w *SQLWalker) visitUnary(node *ast.UnaryNode) {
	switch node.Operator {
	case "!", "not":
		w.builder.WriteString("(NOT ")
		w.walk(&node.Node)
		w.builder.WriteString(")")
	case "-":
		w.builder.WriteString("(-")
		w.walk(&node.Node)
		w.builder.WriteString(")")
	default:
		w.err = fmt.Errorf("unsupported unary operator: %s", node.Operator)
	}
}

func (w *SQLWalker) visitBinary(node *ast.BinaryNode) {
	// Check for null comparisons which need special SQL syntax
	rightIsNil := isNilNode(node.Right)
	leftIsNil := isNilNode(node.Left)

	if rightIsNil || leftIsNil {
		var fieldNode ast.Node
		if rightIsNil {
			fieldNode = node.Left
		} else {
			fieldNode = node.Right
		}

		w.builder.WriteString("(")
		w.walk(&fieldNode)
		switch node.Operator {
		case "==":
			w.builder.WriteString(" IS NULL")
		case "!=":
			w.builder.WriteString(" IS NOT NULL")
		default:
			w.err = fmt.Errorf("unsupported operator for null comparison: %s", node.Operator)
		}
		w.builder.WriteString(")")
		return
	}

	op, ok := binaryOperators[node.Operator]
	if !ok {
		w.err = fmt.Errorf("unsupported operator: %s", node.Operator)
		return
	}

	w.builder.WriteString("(")
	w.walk(&node.Left)
	w.builder.WriteString(" " + op + " ")
	w.walk(&node.Right)
	w.builder.WriteString(")")
}

func (w *SQLWalker) visitCall(node *ast.CallNode) {
	callee, ok := node.Callee.(*ast.IdentifierNode)
	if !ok {
		w.err = fmt.Errorf("unsupported callee type: %T", node.Callee)
		return
	}

	fnName := strings.ToUpper(callee.Value)

	switch fnName {
	case "UPPER", "LOWER":
		w.builder.WriteString(fnName + "(")
		w.walkArgs(node.Arguments)
		w.builder.WriteString(")")

	case "LEN":
		w.builder.WriteString("CHAR_LENGTH(")
		w.walkArgs(node.Arguments)
		w.builder.WriteString(")")

	case "CONTAINS", "STARTS_WITH", "ENDS_WITH":
		// CONTAINS(field, 'text') -> field LIKE '%text%'
		if len(node.Arguments) != 2 {
			w.err = fmt.Errorf("%s requires 2 arguments", fnName)
			return
		}
		strArg, ok := node.Arguments[1].(*ast.StringNode)
		if !ok {
			w.err = fmt.Errorf("%s second argument must be a string", fnName)
			return
		}
		pattern := strArg.Value
		switch fnName {
		case "CONTAINS":
			pattern = "%" + pattern + "%"
		case "STARTS_WITH":
			pattern = pattern + "%"
		default:
			pattern = "%" + pattern
		}

		w.builder.WriteString("(")
		arg0 := node.Arguments[0]
		w.walk(&arg0)
		w.builder.WriteString(" LIKE ")
		w.literal(pattern, w.quoteString(pattern))
		w.builder.WriteString(")")

	default:
		w.err = fmt.Errorf("unsupported function: %s", callee.Value)
	}
}

// Helper to walk multiple args with comma separation
func (w *SQLWalker) walkArgs(args []ast.Node) {
	for i, arg := range args {
		if i > 0 {
			w.builder.WriteString(", ")
		}
		argNode := arg
		w.walk(&argNode)
	}
}

func (w *SQLWalker) quoteString(s string) string {
	if w.opts.QuoteLiteral != nil {
		return w.opts.QuoteLiteral(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
