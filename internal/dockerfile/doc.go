// Package dockerfile renders the build definition for one target and
// writes it to disk.
//
// Every rendered file has the same five-block shape: the FROM line, a
// prologue (build args and shell selection), a base package block
// shared by all targets, a target-specific compiler block, and an
// epilogue installing the image entrypoint. Only the FROM line and the
// compiler block vary across the matrix.
//
// The compiler block deserves care: for recent clang versions the true
// apt package version is only knowable after the upstream llvm
// repository has been added and indexed, so the block binds a shell
// variable at image-build time instead of a generation-time literal.
// Alias registration order is also load-bearing — clang aliases are
// registered before gcc aliases so that gcc wins the generic compiler
// names whenever both families are present.
package dockerfile
