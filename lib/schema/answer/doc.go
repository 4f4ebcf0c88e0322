// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package answer defines the answer records produced by a
// retrieval-augmented chat provider and the parsed form used for
// display. A [Record] is raw provider output: answer text carrying
// inline "[docN]" citation markers plus the retrieved passages those
// markers index into. A [Parsed] answer is the display form produced
// by the citation normalizer (lib/citation).
//
// Records are read-only inputs. Nothing in this package mutates a
// Record after decoding.
//
// This package depends on no other packages in this module.
package answer
