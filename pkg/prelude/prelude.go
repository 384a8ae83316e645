// Package prelude embeds the standard library of definitions loaded
// before any user file: booleans, pairs, list predicates, Church
// arithmetic, and the small-arity tuple projections.
package prelude

import _ "embed"

//go:embed prelude.txt
var Source string
