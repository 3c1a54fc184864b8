// Package scaffold generates a starter build manifest for an existing
// source tree. It discovers the Fortran compilation units under the project
// directory and emits one target block per unit.
package scaffold
