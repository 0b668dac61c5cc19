// Copyright (c) 2026 Mindfolio. All rights reserved.

// Package textnorm normalizes free-text names before storage and lookup.
//
// # Usage
//
// Author and tag names arrive as arbitrary user input ("  Tolkien ",
// "tolkien"). Lookup-or-create treats them case-insensitively, so the
// stored form must be stable: Unicode-composed, trimmed, with inner
// whitespace collapsed. Case is preserved — comparison folds it at query
// time instead.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name canonicalizes a user-supplied name.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes decomposed accents: e + ́ → é).
// 2. Trims leading/trailing whitespace.
// 3. Collapses internal whitespace runs to a single space.
func Name(s string) string {
	composed := norm.NFC.String(s)
	return strings.Join(strings.Fields(composed), " ")
}

// Fold returns the canonical lowercase form used for case-insensitive
// comparison. It mirrors the database's lower(name) index expression.
func Fold(s string) string {
	return strings.ToLower(Name(s))
}
