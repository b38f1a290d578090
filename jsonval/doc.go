// Package jsonval holds decoded JSON documents of unknown shape.
//
// A Value is a tagged union over null, bool, number, string, object and
// array, plus an Absent variant for members that do not exist. Accessors
// never fail: looking up a missing key or indexing past the end of an array
// yields an absent Value, so lookups can be chained freely:
//
//	v.Get("genres").Index(0).Get("L").Text()
//
// Decode keeps numbers as their literal text, so values such as postal
// codes or large identifiers are reproduced exactly.
package jsonval
