// Package model defines the domain types and value objects for the
// cxxmatrix CLI.
//
// This package contains pure data structures with no external dependencies.
// A Target is the unit of enumeration — one concrete (OS, compiler,
// optional GPU toolkit) combination — and every artifact name (Dockerfile
// name, compose service name, image tag) is derived deterministically from
// the target tuple, so name derivation lives here rather than being
// scattered across the generator and the build driver.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
