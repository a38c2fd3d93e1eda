// Package matrix expands a catalog into the concrete list of build
// targets and groups them into build batches.
//
// Expansion is a pure cross-product: per OS version one primary target,
// one target per clang version, one per gcc version, one per
// (gcc, CUDA) pair, and one per (gcc, NVHPC pair). The target count is
// therefore a closed-form function of the catalog cardinalities, which
// the tests pin.
//
// Batching mirrors the image dependency-free build order used in CI:
// per OS version the categories run sequentially (primary, clang, gcc,
// gcc-cuda, gcc-nvhpc) while the targets inside one batch may build in
// parallel.
package matrix
