// Package dag models the build dependency graph. It turns a config.Recipe
// into a Directed Acyclic Graph (DAG) of target nodes and resolves requested
// target names into ordered build plans where every dependency precedes its
// dependents.
package dag
