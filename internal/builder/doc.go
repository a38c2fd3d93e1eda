// Package builder drives the actual image builds through the external
// `docker compose` plugin.
//
// Batches run strictly in sequence; the services inside one batch build
// in parallel via a single `docker compose build --force-rm --parallel`
// invocation. BuildKit is forced on for every child process.
//
// Two failure policies exist: the default aborts the run at the first
// failed batch, while keep-going mode finishes the remaining batches
// and reports every failure at the end. Either way a failed batch makes
// the run exit non-zero.
package builder
