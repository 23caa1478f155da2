// Package reliability classifies evidence sources into one of six
// ordered trust tiers and decides which tiers are admissible as primary
// evidence for a given claim materiality.
//
// Classification fails closed: an unknown or missing source-type tag
// always maps to the lowest tier. The two lowest tiers are support-only
// and are never admissible as sole primary evidence for HIGH or
// CRITICAL materiality claims.
package reliability
