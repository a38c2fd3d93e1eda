// Package compose generates the compose manifest that names every
// matrix image and its build definition.
//
// The manifest is the build driver's single source of truth: each
// target becomes one service stanza with its image tag and a build
// section pointing at the generated Dockerfile. Serialization goes
// through gopkg.in/yaml.v3, whose sorted map-key output makes repeated
// generation byte-identical for an unchanged catalog.
package compose
