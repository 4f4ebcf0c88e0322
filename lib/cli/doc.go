// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the command-line plumbing shared by answerview
// commands: categorized errors with exit codes, and slog logger
// construction for terminal, piped, and full-screen output.
package cli
