// Package dag is the ordering layer of the composition engine. It builds a
// Directed Acyclic Graph (DAG) from the declared dependencies of a module
// set and linearizes it into the single evaluation order the engine follows,
// breaking ties by declaration order so results are reproducible.
package dag
