// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by the
// answer loader and the normalization cache.
//
// JSON is the provider's wire format and the default on-disk form of
// answer files. CBOR is used where byte-exact encoding matters: answer
// files exported in compact form, and the cache keys computed over
// answer records (lib/citation). The encoder uses Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items, so the same record always
// produces identical bytes.
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// Answer types carry `json` struct tags only. fxamacker/cbor v2 falls
// back to `json` tags when `cbor` tags are absent, so one tag controls
// field naming for both formats.
package codec
