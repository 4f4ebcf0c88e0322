// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for answerview.
//
// Configuration comes from a single file named by the --config flag or
// the ANSWERVIEW_CONFIG environment variable (see [Resolve]). There is
// no file discovery: with neither set, [Default] is used unchanged.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production defaults are quieter: only
// errors are logged unless the file says otherwise.
//
// ${HOME}, ${ANSWERVIEW_STATE}, and ${VAR:-default} patterns are
// expanded in path fields after loading. No environment variable
// overrides a config value directly.
package config
