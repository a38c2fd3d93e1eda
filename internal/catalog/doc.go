// Package catalog defines the build-matrix catalog: which Ubuntu
// releases are supported and which compiler and GPU-toolkit versions
// each release carries.
//
// A built-in default catalog ships with the binary and covers the
// versions the toolkit images are published for. An optional JSONC
// configuration file (loaded with github.com/tidwall/jsonc, same as
// devcontainer-style configs) replaces the built-in table wholesale,
// so CI pipelines can pin or trim the matrix without rebuilding the
// tool.
package catalog
