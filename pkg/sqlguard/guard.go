// Package sqlguard validates caller-supplied SQL fragments with the TiDB parser before they
// are embedded into generated statements.
package sqlguard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // value expressions for the parser
)

// Guard checks raw condition clauses
type Guard struct {
	mu     sync.Mutex // parser.Parser is not safe for concurrent use
	parser *parser.Parser

	// AllowSubqueries permits sub-selects inside a condition
	AllowSubqueries bool
}

// New creates a Guard that rejects sub-selects
func New() *Guard {
	return &Guard{parser: parser.New()}
}

// ValidateCondition checks that condition is a single boolean expression usable in a
// WHERE clause. The condition is parsed inside parentheses so that trailing statements or
// line comments swallowing the closing parenthesis are rejected.
func (g *Guard) ValidateCondition(condition string) error {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil
	}
	g.mu.Lock()
	stmtNodes, _, err := g.parser.Parse("SELECT 1 FROM t WHERE ("+condition+")", "", "")
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("invalid condition: %v", err)
	}

	if len(stmtNodes) != 1 {
		return fmt.Errorf("condition must be a single expression")
	}

	selectStmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok || selectStmt.Where == nil {
		return fmt.Errorf("condition must be a single expression")
	}
	if selectStmt.Limit != nil || selectStmt.OrderBy != nil || selectStmt.GroupBy != nil || selectStmt.Having != nil {
		return fmt.Errorf("condition must not contain query clauses")
	}

	if !g.AllowSubqueries {
		visitor := &subqueryVisitor{}
		selectStmt.Where.Accept(visitor)
		if visitor.found {
			return fmt.Errorf("sub-selects are not allowed in conditions")
		}
	}

	return nil
}

type subqueryVisitor struct {
	found bool
}

func (v *subqueryVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.found {
		return in, true
	}
	if _, ok := in.(*ast.SubqueryExpr); ok {
		v.found = true
		return in, true
	}
	return in, false
}

func (v *subqueryVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
