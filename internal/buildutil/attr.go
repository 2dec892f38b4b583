// Package buildutil provides utilities for extracting attributes from
// buildtools AST nodes.
package buildutil

import (
	"slices"

	"github.com/bazelbuild/buildtools/build"
)

// attr returns the value assigned to the named keyword argument.
func attr(call *build.CallExpr, name string) (build.Expr, bool) {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS, true
	}
	return nil, false
}

// Has reports whether the call sets the named attribute.
func Has(call *build.CallExpr, name string) bool {
	_, ok := attr(call, name)
	return ok
}

// String extracts a string attribute from a function call by name.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	if rhs, ok := attr(call, name); ok {
		if str, ok := rhs.(*build.StringExpr); ok {
			return str.Value
		}
	}
	return ""
}

// Bool extracts a boolean attribute from a function call by name.
// Returns def if the attribute is not found or not True/False.
func Bool(call *build.CallExpr, name string, def bool) bool {
	rhs, ok := attr(call, name)
	if !ok {
		return def
	}
	ident, ok := rhs.(*build.Ident)
	if !ok {
		return def
	}
	switch ident.Name {
	case "True":
		return true
	case "False":
		return false
	}
	return def
}

// StringList extracts a list of strings attribute from a function call by name.
// Returns nil if the attribute is not found or not a list.
// Non-string elements in the list are silently skipped.
func StringList(call *build.CallExpr, name string) []string {
	rhs, ok := attr(call, name)
	if !ok {
		return nil
	}
	list, ok := rhs.(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// Unknown returns the keyword arguments of call that are not in allowed, and
// a placeholder for each positional argument, in source order.
func Unknown(call *build.CallExpr, allowed ...string) []string {
	var unknown []string
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			unknown = append(unknown, "<positional>")
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok {
			unknown = append(unknown, "<expr>")
			continue
		}
		if !slices.Contains(allowed, lhs.Name) {
			unknown = append(unknown, lhs.Name)
		}
	}
	return unknown
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// Line returns the 1-based line a call starts on.
func Line(call *build.CallExpr) int {
	start, _ := call.Span()
	return start.Line
}
