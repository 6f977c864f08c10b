/*
Package cqexpr tokenizes, parses and evaluates the condition expressions of
the rule engine.

An expression is built from numbers, identifiers, calls such as sin(x) and
the binary operators < > + - * /. Tokenize splits text by maximal munch,
Parse builds a tree with precedence climbing and Evaluate walks that tree.
Compile lowers a tree into closures for repeated evaluation, and GenerateIR
emits the same expressions as LLVM IR.
*/
package cqexpr
