// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

// DefaultCategories maps category codes to SSRN collection identifiers.
// The table is static; a Crawler receives it at construction and never
// mutates it.
var DefaultCategories = map[string]int{
	"IS":   304241,
	"MKT":  298223,
	"AC":   204,
	"CS":   2894322,
	"ECON": 205,
	"FE":   203,
	"MG":   200668,
}
