package analysis

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// DatasetTable 查询中数据集文件对应的表名
const DatasetTable = "dataset"

// ErrQueryRejected 查询不是允许的只读语句
var ErrQueryRejected = errors.New("query rejected")

// allowedFunctions 查询中允许调用的函数
var allowedFunctions = map[string]bool{
	// 聚合函数
	"count": true, "sum": true, "avg": true, "min": true, "max": true,
	"median": true, "mode": true, "stddev": true, "stddev_samp": true, "stddev_pop": true,
	"variance": true, "quantile_cont": true, "quantile_disc": true,
	"string_agg": true, "list": true, "array_agg": true,
	// 标量函数
	"coalesce": true, "nullif": true, "greatest": true, "least": true,
	"abs": true, "ceil": true, "floor": true, "round": true,
	"len": true, "length": true, "array_length": true,
	"list_sum": true, "list_min": true, "list_max": true, "list_count": true,
	"list_contains": true, "list_position": true,
	"lower": true, "upper": true, "trim": true, "concat": true,
	"substring": true, "starts_with": true, "contains": true,
}

// QueryGuard 用 PostgreSQL 解析器检查查询，只放行针对 dataset 表的单条 SELECT
type QueryGuard struct {
	maxLen int
}

// NewQueryGuard 创建查询检查器
func NewQueryGuard() *QueryGuard {
	return &QueryGuard{maxLen: 4096}
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrQueryRejected, fmt.Sprintf(format, args...))
}

// Check 检查查询，返回去掉结尾分号的语句
func (g *QueryGuard) Check(query string) (string, error) {
	query = strings.TrimSpace(query)
	query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	if query == "" {
		return "", rejectf("empty query")
	}
	if strings.Contains(query, "\x00") {
		return "", rejectf("query contains NUL")
	}
	if len(query) > g.maxLen {
		return "", rejectf("query longer than %d bytes", g.maxLen)
	}

	result, err := pg_query.Parse(query)
	if err != nil {
		return "", rejectf("parse error: %v", err)
	}
	if len(result.Stmts) != 1 {
		return "", rejectf("exactly one statement is allowed, got %d", len(result.Stmts))
	}

	stmt := result.Stmts[0].Stmt.GetSelectStmt()
	if stmt == nil {
		return "", rejectf("only SELECT queries are allowed")
	}
	if err := g.checkSelect(stmt); err != nil {
		return "", err
	}
	return query, nil
}

// checkSelect 检查 SELECT 语句各子句
func (g *QueryGuard) checkSelect(stmt *pg_query.SelectStmt) error {
	if stmt.Op != pg_query.SetOperation_SETOP_NONE {
		return rejectf("UNION/INTERSECT/EXCEPT are not allowed")
	}
	if stmt.WithClause != nil {
		return rejectf("WITH is not allowed")
	}
	if stmt.IntoClause != nil {
		return rejectf("SELECT INTO is not allowed")
	}
	if len(stmt.LockingClause) > 0 {
		return rejectf("locking clauses are not allowed")
	}

	if len(stmt.FromClause) == 0 {
		return rejectf("query must read from %s", DatasetTable)
	}
	for _, from := range stmt.FromClause {
		if err := g.checkFrom(from); err != nil {
			return err
		}
	}

	nodes := append([]*pg_query.Node{}, stmt.TargetList...)
	nodes = append(nodes, stmt.GroupClause...)
	nodes = append(nodes, stmt.SortClause...)
	nodes = append(nodes, stmt.DistinctClause...)
	nodes = append(nodes, stmt.WindowClause...)
	nodes = append(nodes, stmt.WhereClause, stmt.HavingClause, stmt.LimitCount, stmt.LimitOffset)
	for _, n := range nodes {
		if err := g.checkNode(n); err != nil {
			return err
		}
	}
	return nil
}

// checkFrom 只允许 dataset 表及其自连接
func (g *QueryGuard) checkFrom(node *pg_query.Node) error {
	if node == nil {
		return nil
	}
	if rv := node.GetRangeVar(); rv != nil {
		if rv.Schemaname != "" || !strings.EqualFold(rv.Relname, DatasetTable) {
			return rejectf("table %q is not allowed, use %s", rv.Relname, DatasetTable)
		}
		return nil
	}
	if je := node.GetJoinExpr(); je != nil {
		if err := g.checkFrom(je.Larg); err != nil {
			return err
		}
		if err := g.checkFrom(je.Rarg); err != nil {
			return err
		}
		return g.checkNode(je.Quals)
	}
	if node.GetRangeFunction() != nil {
		return rejectf("table functions are not allowed")
	}
	if node.GetRangeSubselect() != nil {
		return rejectf("subqueries in FROM are not allowed")
	}
	return rejectf("unsupported FROM item")
}

// checkNode 递归检查表达式，未列出的节点类型一律拒绝
func (g *QueryGuard) checkNode(node *pg_query.Node) error {
	if node == nil || node.Node == nil {
		return nil
	}

	var children []*pg_query.Node
	switch n := node.Node.(type) {
	case *pg_query.Node_ColumnRef, *pg_query.Node_AConst, *pg_query.Node_AStar, *pg_query.Node_String_:
		return nil
	case *pg_query.Node_FuncCall:
		return g.checkFunc(n.FuncCall)
	case *pg_query.Node_SubLink:
		return rejectf("subqueries are not allowed")
	case *pg_query.Node_ResTarget:
		children = []*pg_query.Node{n.ResTarget.Val}
	case *pg_query.Node_SortBy:
		children = []*pg_query.Node{n.SortBy.Node}
	case *pg_query.Node_AExpr:
		children = []*pg_query.Node{n.AExpr.Lexpr, n.AExpr.Rexpr}
	case *pg_query.Node_BoolExpr:
		children = n.BoolExpr.Args
	case *pg_query.Node_TypeCast:
		children = []*pg_query.Node{n.TypeCast.Arg}
	case *pg_query.Node_NullTest:
		children = []*pg_query.Node{n.NullTest.Arg}
	case *pg_query.Node_BooleanTest:
		children = []*pg_query.Node{n.BooleanTest.Arg}
	case *pg_query.Node_CoalesceExpr:
		children = n.CoalesceExpr.Args
	case *pg_query.Node_MinMaxExpr:
		children = n.MinMaxExpr.Args
	case *pg_query.Node_AArrayExpr:
		children = n.AArrayExpr.Elements
	case *pg_query.Node_RowExpr:
		children = n.RowExpr.Args
	case *pg_query.Node_AIndirection:
		children = append([]*pg_query.Node{n.AIndirection.Arg}, n.AIndirection.Indirection...)
	case *pg_query.Node_AIndices:
		children = []*pg_query.Node{n.AIndices.Lidx, n.AIndices.Uidx}
	case *pg_query.Node_CaseExpr:
		children = append([]*pg_query.Node{n.CaseExpr.Arg, n.CaseExpr.Defresult}, n.CaseExpr.Args...)
	case *pg_query.Node_CaseWhen:
		children = []*pg_query.Node{n.CaseWhen.Expr, n.CaseWhen.Result}
	case *pg_query.Node_List:
		children = n.List.Items
	case *pg_query.Node_WindowDef:
		return g.checkWindow(n.WindowDef)
	default:
		return rejectf("expression %T is not allowed", node.Node)
	}

	for _, c := range children {
		if err := g.checkNode(c); err != nil {
			return err
		}
	}
	return nil
}

// checkWindow 检查窗口定义里的分区、排序和边界表达式
func (g *QueryGuard) checkWindow(w *pg_query.WindowDef) error {
	if w == nil {
		return nil
	}
	nodes := append([]*pg_query.Node{}, w.PartitionClause...)
	nodes = append(nodes, w.OrderClause...)
	nodes = append(nodes, w.StartOffset, w.EndOffset)
	for _, n := range nodes {
		if err := g.checkNode(n); err != nil {
			return err
		}
	}
	return nil
}

// checkFunc 函数必须在白名单内且不带 schema 前缀，参数、FILTER 和 OVER 一并检查
func (g *QueryGuard) checkFunc(fc *pg_query.FuncCall) error {
	if len(fc.Funcname) != 1 {
		return rejectf("schema-qualified functions are not allowed")
	}
	name := ""
	if s := fc.Funcname[0].GetString_(); s != nil {
		name = strings.ToLower(s.Sval)
	}
	if !allowedFunctions[name] {
		return rejectf("function %q is not allowed", name)
	}

	nodes := append([]*pg_query.Node{}, fc.Args...)
	nodes = append(nodes, fc.AggOrder...)
	nodes = append(nodes, fc.AggFilter)
	for _, n := range nodes {
		if err := g.checkNode(n); err != nil {
			return err
		}
	}
	return g.checkWindow(fc.Over)
}
