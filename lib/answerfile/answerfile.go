// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package answerfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/answerview/lib/cli"
	"github.com/bureau-foundation/answerview/lib/codec"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

// MaxDecodedSize bounds the decompressed size of an answer file.
// Answers are a few kilobytes; anything near this limit is not one.
const MaxDecodedSize = 16 << 20

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// Format is the serialization of an answer record.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatCBOR  Format = "cbor"
)

// Compression is the optional compression wrapped around the
// serialized record.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Encoding is a format plus compression.
type Encoding struct {
	Format      Format
	Compression Compression
}

func (encoding Encoding) String() string {
	if encoding.Compression == CompressionNone {
		return string(encoding.Format)
	}
	return string(encoding.Format) + "+" + string(encoding.Compression)
}

var compressionSuffixes = map[string]Compression{
	".zst":  CompressionZstd,
	".zstd": CompressionZstd,
	".lz4":  CompressionLZ4,
}

var formatSuffixes = map[string]Format{
	".json":  FormatJSON,
	".jsonc": FormatJSONC,
	".cbor":  FormatCBOR,
}

// DetectEncoding derives the encoding from a file name.
func DetectEncoding(path string) (Encoding, error) {
	if path == StdinPath {
		return Encoding{Format: FormatJSON}, nil
	}

	var encoding Encoding
	name := strings.ToLower(filepath.Base(path))
	extension := filepath.Ext(name)
	if compression, ok := compressionSuffixes[extension]; ok {
		encoding.Compression = compression
		name = strings.TrimSuffix(name, extension)
		extension = filepath.Ext(name)
	}

	format, ok := formatSuffixes[extension]
	if !ok {
		return Encoding{}, cli.Validation("cannot determine answer file format of %s", path).
			WithHint("Name the file with a .json, .jsonc, or .cbor extension, optionally followed by .zst or .lz4.")
	}
	encoding.Format = format
	return encoding, nil
}

// Load reads and validates the answer record at path.
func Load(path string) (answer.Record, error) {
	encoding, err := DetectEncoding(path)
	if err != nil {
		return answer.Record{}, err
	}

	if path == StdinPath {
		return Read(os.Stdin, encoding)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return answer.Record{}, cli.NotFound("answer file %s does not exist", path)
		}
		return answer.Record{}, cli.Internal("opening answer file: %w", err)
	}
	defer file.Close()

	record, err := Read(file, encoding)
	if err != nil {
		return answer.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return record, nil
}

// Read decodes and validates one answer record from reader.
func Read(reader io.Reader, encoding Encoding) (answer.Record, error) {
	data, err := readDecompressed(reader, encoding.Compression)
	if err != nil {
		return answer.Record{}, err
	}

	var record answer.Record
	switch encoding.Format {
	case FormatJSON:
		err = json.Unmarshal(data, &record)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(data), &record)
	case FormatCBOR:
		err = codec.Unmarshal(data, &record)
	default:
		return answer.Record{}, cli.Validation("unsupported answer format %q", encoding.Format)
	}
	if err != nil {
		return answer.Record{}, cli.Validation("decoding %s answer: %w", encoding, err)
	}

	if err := record.Validate(); err != nil {
		return answer.Record{}, cli.Validation("%w", err)
	}
	return record, nil
}

func readDecompressed(reader io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
	case CompressionZstd:
		decoder, err := zstd.NewReader(reader,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(MaxDecodedSize),
		)
		if err != nil {
			return nil, cli.Validation("opening zstd stream: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	case CompressionLZ4:
		reader = lz4.NewReader(reader)
	default:
		return nil, cli.Validation("unsupported compression %q", compression)
	}

	data, err := io.ReadAll(io.LimitReader(reader, MaxDecodedSize+1))
	if err != nil {
		if compression != CompressionNone {
			return nil, cli.Validation("decompressing %s answer: %w", compression, err)
		}
		return nil, cli.Internal("reading answer: %w", err)
	}
	if len(data) > MaxDecodedSize {
		return nil, cli.Validation("answer exceeds %d bytes", MaxDecodedSize)
	}
	return data, nil
}

// Save writes record to path in the encoding implied by its name.
// The file is replaced atomically.
func Save(path string, record answer.Record) error {
	encoding, err := DetectEncoding(path)
	if err != nil {
		return err
	}
	if path == StdinPath {
		return Write(os.Stdout, record, encoding)
	}

	var buffer bytes.Buffer
	if err := Write(&buffer, record, encoding); err != nil {
		return err
	}

	temporary, err := os.CreateTemp(filepath.Dir(path), ".answer-*")
	if err != nil {
		return cli.Internal("creating temporary file: %w", err)
	}
	defer os.Remove(temporary.Name())

	if _, err := temporary.Write(buffer.Bytes()); err != nil {
		temporary.Close()
		return cli.Internal("writing %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return cli.Internal("writing %s: %w", path, err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return cli.Internal("replacing %s: %w", path, err)
	}
	return nil
}

// Write encodes record to writer. JSONC output is indented JSON.
func Write(writer io.Writer, record answer.Record, encoding Encoding) error {
	var data []byte
	var err error
	switch encoding.Format {
	case FormatJSON, FormatJSONC:
		data, err = json.MarshalIndent(record, "", "  ")
		data = append(data, '\n')
	case FormatCBOR:
		data, err = codec.Marshal(record)
	default:
		return cli.Validation("unsupported answer format %q", encoding.Format)
	}
	if err != nil {
		return cli.Internal("encoding %s answer: %w", encoding, err)
	}

	switch encoding.Compression {
	case CompressionNone:
		_, err = writer.Write(data)
	case CompressionZstd:
		err = writeCompressed(writer, data, func(destination io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(destination, zstd.WithEncoderLevel(zstd.SpeedDefault))
		})
	case CompressionLZ4:
		err = writeCompressed(writer, data, func(destination io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(destination), nil
		})
	default:
		return cli.Validation("unsupported compression %q", encoding.Compression)
	}
	if err != nil {
		return cli.Internal("writing %s answer: %w", encoding, err)
	}
	return nil
}

func writeCompressed(writer io.Writer, data []byte, open func(io.Writer) (io.WriteCloser, error)) error {
	compressor, err := open(writer)
	if err != nil {
		return err
	}
	if _, err := compressor.Write(data); err != nil {
		compressor.Close()
		return err
	}
	return compressor.Close()
}
