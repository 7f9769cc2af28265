// Package format turns variadic log arguments into display text.
//
// Format follows the familiar console semantics:
//   - A leading string may carry printf-style specifiers (%s %d %i %f %j %o %O %c %%).
//     Arguments are consumed positionally; extra arguments are appended.
//   - Without specifiers, every argument is joined with single spaces.
//     Strings are kept as-is, everything else goes through Inspect.
//
// Inspect renders arbitrary Go values as literal-like text (slices as [ 1, 2 ],
// maps and structs as { key: value }), detects reference cycles and never panics.
//
// The package also renders elapsed durations (Duration) and box-drawn tables
// (Table). Everything here is pure: no I/O, no shared state.
package format
