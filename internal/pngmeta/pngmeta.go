// Package pngmeta reads and embeds the Description text chunk that records
// what a screenshot shows. The value is stored verbatim as UTF-8 bytes in a
// tEXt chunk, so reading it back always yields the exact string written.
package pngmeta

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

// DescriptionKey is the text-chunk keyword carrying the derived description.
// It doubles as the idempotency marker: a file that already has one was
// processed by a previous run.
const DescriptionKey = "Description"

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// maxTextChunkLen bounds how much of a text chunk gets buffered. Real
// descriptions are a few hundred bytes; a length word past this limit marks
// the file corrupt rather than triggering a multi-gigabyte allocation.
const maxTextChunkLen = 1 << 20

// ErrNotPNG is returned when the file does not start with the PNG signature.
var ErrNotPNG = errors.New("pngmeta: not a PNG file")

// ErrOversizedTextChunk is returned when a text chunk declares a length
// beyond maxTextChunkLen.
var ErrOversizedTextChunk = errors.New("pngmeta: text chunk length exceeds limit")

// Read returns the embedded Description value and whether one is present.
// Both tEXt and uncompressed iTXt chunks keyed Description are recognized.
// The file is never modified.
func Read(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	return readDescription(f)
}

func readDescription(r io.Reader) (string, bool, error) {
	br := bufio.NewReader(r)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return "", false, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return "", false, ErrNotPNG
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return "", false, nil
			}
			return "", false, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return "", false, err
		}
		chunkName := string(typeBuf)

		switch chunkName {
		case "tEXt", "iTXt":
			if length > maxTextChunkLen {
				return "", false, ErrOversizedTextChunk
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return "", false, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return "", false, err
			}
			if value, ok := decodeTextChunk(chunkName, data); ok {
				return value, true, nil
			}
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return "", false, err
			}
		}

		if chunkName == "IEND" {
			return "", false, nil
		}
	}
}

// decodeTextChunk extracts the Description value from a tEXt or iTXt chunk
// payload. Returns ok=false when the key does not match or the chunk is
// compressed (we never write compressed chunks ourselves).
func decodeTextChunk(chunkName string, data []byte) (string, bool) {
	sep := bytes.IndexByte(data, 0)
	if sep <= 0 || string(data[:sep]) != DescriptionKey {
		return "", false
	}

	switch chunkName {
	case "tEXt":
		return string(data[sep+1:]), true
	case "iTXt":
		// keyword \0 compressionFlag compressionMethod languageTag \0
		// translatedKeyword \0 text
		rest := data[sep+1:]
		if len(rest) < 2 || rest[0] != 0 {
			return "", false
		}
		rest = rest[2:]
		langEnd := bytes.IndexByte(rest, 0)
		if langEnd < 0 {
			return "", false
		}
		rest = rest[langEnd+1:]
		transEnd := bytes.IndexByte(rest, 0)
		if transEnd < 0 {
			return "", false
		}
		return string(rest[transEnd+1:]), true
	}
	return "", false
}

// Embed rewrites the PNG at path in place so it carries exactly one tEXt
// chunk keyed Description with the given value, inserted before IEND. Any
// previous Description chunk is dropped; every other chunk, pixel data
// included, passes through byte for byte. The rewrite goes to a temp file in
// the same directory and replaces the original with a single rename, so a
// failure at any point leaves the original untouched.
func Embed(path, description string) error {
	if description == "" {
		return errors.New("pngmeta: empty description")
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".holmes-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(srcInfo.Mode()); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := rewriteWithDescription(src, tmp, description); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func rewriteWithDescription(r io.Reader, w io.Writer, description string) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return err
	}
	if !bytes.Equal(sig, pngSignature) {
		return ErrNotPNG
	}
	if _, err := bw.Write(sig); err != nil {
		return err
	}

	sawEnd := false
	for !sawEnd {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		typeBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, typeBuf); err != nil {
			return err
		}
		chunkName := string(typeBuf)

		switch chunkName {
		case "tEXt", "iTXt":
			if length > maxTextChunkLen {
				return ErrOversizedTextChunk
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return err
			}
			if _, ok := decodeTextChunk(chunkName, data); ok {
				continue // stale Description, replaced below
			}
			if err := writeChunk(bw, chunkName, data); err != nil {
				return err
			}
		case "IEND":
			if err := writeChunk(bw, "tEXt", textChunkData(description)); err != nil {
				return err
			}
			if _, err := bw.Write(lenBuf); err != nil {
				return err
			}
			if _, err := bw.Write(typeBuf); err != nil {
				return err
			}
			if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
				return err
			}
			sawEnd = true
		default:
			if _, err := bw.Write(lenBuf); err != nil {
				return err
			}
			if _, err := bw.Write(typeBuf); err != nil {
				return err
			}
			if _, err := io.CopyN(bw, br, int64(length)+4); err != nil {
				return err
			}
		}
	}

	if !sawEnd {
		return fmt.Errorf("pngmeta: missing IEND chunk")
	}

	return bw.Flush()
}

func textChunkData(description string) []byte {
	data := make([]byte, 0, len(DescriptionKey)+1+len(description))
	data = append(data, DescriptionKey...)
	data = append(data, 0)
	data = append(data, description...)
	return data
}

func writeChunk(w io.Writer, chunkName string, data []byte) error {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	typeBytes := []byte(chunkName)
	if _, err := w.Write(typeBytes); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	crc := crc32.ChecksumIEEE(append(append([]byte{}, typeBytes...), data...))
	crcBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(crcBuf, crc)
	_, err := w.Write(crcBuf)
	return err
}
