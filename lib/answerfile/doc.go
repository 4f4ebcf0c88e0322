// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package answerfile reads and writes answer records on disk.
//
// The encoding is chosen from the file name. The base format is one of
// .json, .jsonc (JSON with comments and trailing commas), or .cbor,
// optionally followed by a compression suffix: .zst for zstd or .lz4
// for the LZ4 frame format. "answer.cbor.zst" is zstd-compressed CBOR.
// The path "-" reads JSON from standard input.
//
// Every loaded record is validated before it is returned. Errors are
// categorized with lib/cli so commands exit with a meaningful code.
package answerfile
