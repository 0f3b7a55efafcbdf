// Package snapshot makes point-in-time copies of a contacts file,
// optionally compressed and uploaded to s3-compatible storage.
//
// A snapshot is a byte-for-byte copy of the backing file, soft-deleted
// lines included.
package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/kjk/contacts/u"
)

type Compression string

const (
	None   Compression = "none"
	Zstd   Compression = "zstd"
	Brotli Compression = "brotli"
)

// ParseCompression parses compression name, empty string means None
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "brotli", "br":
		return Brotli, nil
	}
	return "", fmt.Errorf("snapshot: unknown compression '%s'", s)
}

// Ext returns file extension for compressed snapshots
func (c Compression) Ext() string {
	switch c {
	case Zstd:
		return ".zst"
	case Brotli:
		return ".br"
	}
	return ""
}

// CompressionFromPath guesses compression from file extension
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return Zstd
	case ".br":
		return Brotli
	}
	return None
}

// Name returns file name of a snapshot taken at t
func Name(t time.Time, c Compression) string {
	return "contacts-" + t.UTC().Format("20060102-150405") + ".txt" + c.Ext()
}

// Info describes a written snapshot
type Info struct {
	Path        string
	Compression Compression
	// size of the source file
	Size int64
	// size of the snapshot file
	CompressedSize int64
	Lines          int
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newCompressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		// SpeedBestCompression is slower but contact files are small
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case Brotli:
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	}
	return nil, fmt.Errorf("snapshot: unknown compression '%s'", c)
}

// lineCounter counts newlines written through it
type lineCounter struct {
	w     io.Writer
	n     int64
	lines int
}

func (lc *lineCounter) Write(p []byte) (int, error) {
	n, err := lc.w.Write(p)
	lc.n += int64(n)
	lc.lines += bytes.Count(p[:n], []byte{'\n'})
	return n, err
}

// Write copies src to dst, compressing with c.
// dst is written atomically: on error it's not created.
func Write(dst string, src string, c Compression) (*Info, error) {
	fSrc, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer fSrc.Close()

	if err = os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, err
	}
	fDst, err := NewAtomicFile(dst)
	if err != nil {
		return nil, err
	}
	defer fDst.Cancel()

	cw, err := newCompressWriter(fDst, c)
	if err != nil {
		return nil, err
	}
	lc := &lineCounter{w: cw}
	_, err = io.Copy(lc, bufio.NewReader(fSrc))
	if err != nil {
		// stops zstd encoder goroutines
		_ = cw.Close()
		return nil, err
	}
	if err = cw.Close(); err != nil {
		return nil, err
	}
	if err = fDst.Close(); err != nil {
		return nil, err
	}

	info := &Info{
		Path:        dst,
		Compression: c,
		Size:        lc.n,
		Lines:       lc.lines,
	}
	info.CompressedSize = u.FileSize(dst)
	return info, nil
}

// Read returns uncompressed content of a snapshot.
// Compression is determined from file extension.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch CompressionFromPath(path) {
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case Brotli:
		return io.ReadAll(brotli.NewReader(f))
	}
	return io.ReadAll(f)
}
