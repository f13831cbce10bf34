// Package term provides the closed set of values the cache can hold as keys
// and values.
//
// A [Term] is one of:
//
//   - [Nil]
//   - [Int], [Uint], [Float]
//   - [Bool]
//   - [String] (UTF-8 text) and [Atom] (symbolic name)
//   - [Bytes]
//   - [List], [Tuple]
//   - [Map]
//
// The set is sealed: no type outside this package implements [Term].
//
// # Equality and Hashing
//
// [Equal] and [Hash] are structural and recurse into containers. Values of
// different kinds are never equal, so Int(1), Uint(1) and Float(1) are three
// distinct keys. Equal values always hash the same.
//
// Floats compare by their IEEE bits after folding -0 into +0 and every NaN
// into one canonical NaN, so NaN can be used as a key and finds itself.
//
// # Host Values
//
// [FromHost] converts plain Go values into terms and fails with
// [ErrUnsupportedType] for anything it cannot represent (funcs, channels,
// structs, pointers). [ToHost] goes the other way.
//
//	k, err := term.FromHost([]any{"user", 42})
//	if errors.Is(err, term.ErrUnsupportedType) {
//	    // reject the request
//	}
package term
