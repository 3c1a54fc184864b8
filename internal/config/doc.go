// Package config defines the format-agnostic build model for the
// application, along with the Loader interface for reading it from a
// concrete manifest format.
//
// The `config.Recipe` is the single source of truth for the `dag` and
// `executor` packages. Concrete loader implementations, such as for HCL,
// are provided in separate packages.
package config
