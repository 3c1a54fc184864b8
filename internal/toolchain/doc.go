// Package toolchain constructs and executes the external compiler and
// linker actions. An Action is a fully expanded command line; the Runner
// invokes it through the operating system, passing the tool's diagnostic
// output through verbatim.
package toolchain
