// Package configs provides embedded configuration templates for the
// lean-explore packaging tools.
//
// Templates are embedded at build time using Go's //go:embed directive so
// they are available in all distributions: source builds, binary releases,
// and package-manager installs.
//
// Configuration precedence (see internal/config.Load):
//  1. Hardcoded defaults (internal/config.NewConfig)
//  2. Project config (.leanexplore.yaml in the data directory)
//  3. Environment variables (LEANEXPLORE_*)
//  4. CLI flags
package configs

import _ "embed"

// ProjectConfigTemplate is the template for project-level configuration.
// Created by `leanexplore config init` at .leanexplore.yaml in the data
// directory.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
