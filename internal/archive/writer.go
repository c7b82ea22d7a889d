// Package archive wraps a zip container writer behind the small interface
// the packaging pipeline needs: open once, append named payloads, close
// exactly once.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz/lzma"

	"github.com/temirov/srcpack/internal/types"
)

// Zip method identifiers for the non-standard compressors.
const (
	methodBzip2 uint16 = 12
	methodLZMA  uint16 = 14
)

// Classic lzma container layout: 5 property bytes followed by an 8-byte
// uncompressed-size field, then the stream.
const (
	lzmaPropertiesSize    = 5
	lzmaClassicHeaderSize = 13
)

// lzmaZipHeader prefixes every method 14 entry: 2-byte encoder version
// (9.4) and the little-endian length of the property block that follows.
var lzmaZipHeader = []byte{9, 4, 5, 0}

var errWriterClosed = errors.New("archive: writer already closed")

// Writer appends files into a single zip archive. It is not safe for
// concurrent use; parallel pipelines must serialize writes behind one
// consumer.
type Writer struct {
	file   *os.File
	zip    *zip.Writer
	method uint16
	closed bool
}

// methodID maps a compression method name to a zip method identifier.
func methodID(compressionName string) (uint16, error) {
	switch compressionName {
	case types.CompressionStore:
		return zip.Store, nil
	case types.CompressionDeflate, "":
		return zip.Deflate, nil
	case types.CompressionLZMA:
		return methodLZMA, nil
	case types.CompressionBzip2:
		return methodBzip2, nil
	default:
		return 0, fmt.Errorf("archive: unknown compression method %q", compressionName)
	}
}

// Open creates the output archive with the named compression method.
func Open(outputPath string, compressionName string) (*Writer, error) {
	method, methodError := methodID(compressionName)
	if methodError != nil {
		return nil, methodError
	}

	file, createError := os.Create(outputPath)
	if createError != nil {
		return nil, fmt.Errorf("archive: create %s: %w", outputPath, createError)
	}

	zipWriter := zip.NewWriter(file)
	switch method {
	case zip.Deflate:
		zipWriter.RegisterCompressor(zip.Deflate, func(target io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(target, flate.BestCompression)
		})
	case methodLZMA:
		zipWriter.RegisterCompressor(methodLZMA, newLZMACompressor)
	case methodBzip2:
		zipWriter.RegisterCompressor(methodBzip2, func(target io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(target, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		})
	}

	return &Writer{file: file, zip: zipWriter, method: method}, nil
}

// newLZMACompressor produces the zip method 14 framing for one entry:
// the entry header, the 5 property bytes, then a raw stream terminated by
// an end-of-stream marker. The classic container the lzma writer emits
// carries an 8-byte uncompressed-size field after the properties, which
// the framing forbids; the shim below drops it in flight.
func newLZMACompressor(target io.Writer) (io.WriteCloser, error) {
	return lzma.WriterConfig{EOSMarker: true}.NewWriter(&lzmaEntryShim{target: target})
}

// lzmaEntryShim forwards a classic lzma container to the underlying zip
// entry minus the 8-byte size field between the properties and the stream.
// It also emits the entry header ahead of the first forwarded byte; the zip
// writer only accepts entry payload after the local file header is out, so
// the prefix cannot be written while the compressor is being constructed.
type lzmaEntryShim struct {
	target io.Writer
	offset int
}

func (shim *lzmaEntryShim) Write(data []byte) (int, error) {
	if shim.offset == 0 && len(data) > 0 {
		if _, writeError := shim.target.Write(lzmaZipHeader); writeError != nil {
			return 0, writeError
		}
	}
	total := len(data)
	for len(data) > 0 {
		switch {
		case shim.offset < lzmaPropertiesSize:
			count := lzmaPropertiesSize - shim.offset
			if count > len(data) {
				count = len(data)
			}
			if _, writeError := shim.target.Write(data[:count]); writeError != nil {
				return 0, writeError
			}
			shim.offset += count
			data = data[count:]
		case shim.offset < lzmaClassicHeaderSize:
			count := lzmaClassicHeaderSize - shim.offset
			if count > len(data) {
				count = len(data)
			}
			shim.offset += count
			data = data[count:]
		default:
			if _, writeError := shim.target.Write(data); writeError != nil {
				return 0, writeError
			}
			shim.offset += len(data)
			data = nil
		}
	}
	return total, nil
}

// WriteBytes appends a payload under the given archive-relative name.
func (writer *Writer) WriteBytes(archiveName string, data []byte) error {
	if writer.closed {
		return errWriterClosed
	}
	header := &zip.FileHeader{
		Name:     archiveName,
		Method:   writer.method,
		Modified: time.Now(),
	}
	entry, createError := writer.zip.CreateHeader(header)
	if createError != nil {
		return fmt.Errorf("archive: add %s: %w", archiveName, createError)
	}
	if _, writeError := entry.Write(data); writeError != nil {
		return fmt.Errorf("archive: write %s: %w", archiveName, writeError)
	}
	return nil
}

// WriteFile appends the file at sourcePath under the given archive name.
func (writer *Writer) WriteFile(archiveName string, sourcePath string) error {
	data, readError := os.ReadFile(sourcePath)
	if readError != nil {
		return fmt.Errorf("archive: read %s: %w", sourcePath, readError)
	}
	return writer.WriteBytes(archiveName, data)
}

// Close flushes the central directory and closes the output file. It is
// idempotent; only the first call performs work. A partially written
// archive is left on disk when closing fails.
func (writer *Writer) Close() error {
	if writer.closed {
		return nil
	}
	writer.closed = true
	zipError := writer.zip.Close()
	fileError := writer.file.Close()
	return errors.Join(zipError, fileError)
}
