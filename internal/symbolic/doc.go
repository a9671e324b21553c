// Package symbolic is the module's one hand-rolled computer-algebra
// layer: everything else in this repository treats circuit equations
// as opaque [Expr] trees and leans on this package to simplify,
// differentiate, solve and compile them. There is no third-party
// symbolic-algebra package in the wider Go ecosystem with this
// contract, so this package uses only the standard library — see
// DESIGN.md.
package symbolic
