// Package realestate defines the four entity types managed by the
// application (property, person, realtor, contract), their search filters,
// and the instantiated cache types for each. Filter predicates mirror the
// remote service's search semantics: constrained fields that are unset on a
// record never match, free-text fields match every word of the query as a
// case-insensitive substring, and multi-valued reference filters require
// subset containment.
package realestate
