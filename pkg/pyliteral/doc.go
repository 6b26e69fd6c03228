// Package pyliteral reads and writes the structured-literal syntax used for
// package metadata: the subset of Python literal syntax made of dicts,
// lists, tuples, strings, numbers, booleans and None.
//
// Output is deterministic (sorted dict keys) and accepted by Python's
// ast.literal_eval, so containers stay readable by existing tooling.
//
// Decoded values use these Go types:
//
//	dict    map[string]any
//	list    []any
//	tuple   Tuple
//	str     string
//	int     int64
//	float   float64
//	bool    bool
//	None    nil
//
// Sets, bytes, complex numbers, f-strings and anything that is not a
// literal are rejected with a *SyntaxError.
package pyliteral
