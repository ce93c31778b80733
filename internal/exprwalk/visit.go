// Package exprwalk implements a single recursive traversal of
// ast.Expr trees with enter/exit hooks around the two node kinds that
// introduce new lexical scope, Lambda and Let, plus leaf callbacks for
// the node kinds that can carry a free name: Ref, QualifiedRef and
// RecordUpdate, and for each operator symbol in an OpChain.
package exprwalk

import "github.com/sunholo/mlcheck/internal/ast"

// Visitor receives callbacks as Walk descends through an
// expression tree. Every method has a default no-op via EmptyVisitor,
// embed it and override only what you need.
type Visitor interface {
	EnterLambda(l *ast.Lambda)
	ExitLambda(l *ast.Lambda)
	EnterLet(l *ast.Let)
	ExitLet(l *ast.Let)
	VisitRef(r *ast.Ref)
	VisitQualifiedRef(r *ast.QualifiedRef)
	VisitRecordUpdate(r *ast.RecordUpdate)
	VisitOp(name string)
}

// EmptyVisitor is a Visitor whose methods all do nothing; embed it in a
// concrete visitor to implement only the callbacks that matter.
type EmptyVisitor struct{}

func (EmptyVisitor) EnterLambda(*ast.Lambda)             {}
func (EmptyVisitor) ExitLambda(*ast.Lambda)              {}
func (EmptyVisitor) EnterLet(*ast.Let)                   {}
func (EmptyVisitor) ExitLet(*ast.Let)                    {}
func (EmptyVisitor) VisitRef(*ast.Ref)                   {}
func (EmptyVisitor) VisitQualifiedRef(*ast.QualifiedRef) {}
func (EmptyVisitor) VisitRecordUpdate(*ast.RecordUpdate) {}
func (EmptyVisitor) VisitOp(string)                      {}

// Walk recursively descends e, invoking v's callbacks. Lambda and Let
// each get a matched Enter/Exit pair around the recursion into their
// body (and, for Let, into each declaration's expression too), mirroring
// the enter_block/exit_block pairing the analyzer itself performs when
// it visits the same nodes for real.
func Walk(e ast.Expr, v Visitor) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.LitExpr:
		// no children

	case *ast.Ref:
		v.VisitRef(ex)

	case *ast.QualifiedRef:
		v.VisitQualifiedRef(ex)

	case *ast.RecordFieldExpr:
		// no children

	case *ast.RecordAccess:
		Walk(ex.Record, v)

	case *ast.RecordUpdate:
		v.VisitRecordUpdate(ex)
		for _, f := range ex.Fields {
			Walk(f.Value, v)
		}

	case *ast.If:
		Walk(ex.Cond, v)
		Walk(ex.Then, v)
		Walk(ex.Else, v)

	case *ast.Case:
		Walk(ex.Scrutinee, v)
		for _, arm := range ex.Arms {
			Walk(arm.Expr, v)
		}

	case *ast.Application:
		Walk(ex.Fn, v)
		Walk(ex.Arg, v)

	case *ast.Lambda:
		v.EnterLambda(ex)
		Walk(ex.Body, v)
		v.ExitLambda(ex)

	case *ast.Let:
		v.EnterLet(ex)
		for _, d := range ex.Decls {
			switch dd := d.(type) {
			case ast.LetDef:
				Walk(dd.Definition.Expr, v)
			case ast.LetPattern:
				Walk(dd.Expr, v)
			}
		}
		Walk(ex.Body, v)
		v.ExitLet(ex)

	case *ast.OpChain:
		for _, t := range ex.Terms {
			Walk(t, v)
		}
		for _, op := range ex.Ops {
			v.VisitOp(op)
		}

	case *ast.TupleExpr:
		for _, el := range ex.Elems {
			Walk(el, v)
		}

	case *ast.ListExpr:
		for _, el := range ex.Elems {
			Walk(el, v)
		}

	case *ast.RecordExpr:
		for _, f := range ex.Fields {
			Walk(f.Value, v)
		}
	}
}
