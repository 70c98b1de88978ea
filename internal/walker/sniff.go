package walker

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// sniffSize is how much of a file's head is inspected for binary content
	sniffSize = 8192
	// maxControlRatio is the share of control bytes above which content counts as binary
	maxControlRatio = 0.30
)

// binaryExtensions are treated as binary whatever their first bytes look like.
var binaryExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "tiff": {}, "ico": {}, "webp": {},
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"zip": {}, "tar": {}, "gz": {}, "rar": {}, "7z": {}, "jar": {},
	"exe": {}, "dll": {}, "so": {}, "dylib": {}, "bin": {}, "o": {}, "a": {}, "class": {}, "wasm": {},
	"mp3": {}, "mp4": {}, "wav": {}, "avi": {}, "mov": {},
	"ttf": {}, "otf": {}, "woff": {}, "woff2": {},
}

// hasBinaryExtension reports whether the file name carries a known binary extension
func hasBinaryExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := binaryExtensions[ext]
	return ok
}

// sniffBinary reads the head of the file at path and reports whether it looks binary.
func sniffBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return looksBinary(buf[:n]), nil
}

// looksBinary applies the content heuristics: any NUL byte, or too many control
// bytes other than common whitespace. Empty content is text.
func looksBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	control := 0
	for _, b := range sample {
		switch {
		case b == 0:
			return true
		case b == '\n', b == '\r', b == '\t', b == '\f', b == '\b', b == 0x1b:
		case b < 0x20, b == 0x7f:
			control++
		}
	}
	return float64(control)/float64(len(sample)) > maxControlRatio
}
