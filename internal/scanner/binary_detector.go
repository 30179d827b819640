package scanner

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// binarySampleSize is how much of a file the heuristics look at
const binarySampleSize = 512

// BinaryDetector handles detection of files that should not be searched as text
type BinaryDetector struct {
	binaryExtensions map[string]bool
}

// NewBinaryDetector creates a detector with the known binary extension table
func NewBinaryDetector() *BinaryDetector {
	extensions := map[string]bool{
		// Fonts
		".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,

		// Images
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
		".ico": true, ".webp": true, ".tiff": true, ".tif": true,
		".svg": false, // SVG is text-based XML

		// Archives
		".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
		".7z": true, ".rar": true, ".jar": true,

		// Executables and objects. ".obj" and ".bin" are left to the content
		// checks since Wavefront models and firmware dumps share them.
		".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
		".o": true, ".class": true, ".pyc": true,

		// Media
		".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
		".flac": true, ".ogg": true,

		// Binary document formats
		".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
		".ppt": true, ".pptx": true,

		// Databases
		".db": true, ".sqlite": true, ".sqlite3": true,
	}

	return &BinaryDetector{
		binaryExtensions: extensions,
	}
}

// IsBinaryByExtension checks if a file is binary based on its extension
func (bd *BinaryDetector) IsBinaryByExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	isBinary, exists := bd.binaryExtensions[ext]
	return exists && isBinary
}

// binarySignatures are file headers that never start a text file
var binarySignatures = [][]byte{
	{0x1F, 0x8B},             // gzip
	{0x50, 0x4B, 0x03, 0x04}, // ZIP
	{0x89, 0x50, 0x4E, 0x47}, // PNG
	{0xFF, 0xD8, 0xFF},       // JPEG
	{0x47, 0x49, 0x46, 0x38}, // GIF
	{0x25, 0x50, 0x44, 0x46}, // PDF
	{0x7F, 0x45, 0x4C, 0x46}, // ELF
	{0xCA, 0xFE, 0xBA, 0xBE}, // Mach-O
}

// IsTextMIME reports whether mimetype classifies content as a text/plain descendant
func (bd *BinaryDetector) IsTextMIME(content []byte) bool {
	for mtype := mimetype.Detect(content); mtype != nil; mtype = mtype.Parent() {
		if mtype.Is("text/plain") {
			return true
		}
	}
	return false
}

// IsBinary combines extension, control-byte, signature and MIME checks.
// Valid UTF-8 without NUL or control-byte noise is always text, whatever
// its first bytes happen to spell.
func (bd *BinaryDetector) IsBinary(path string, content []byte) bool {
	// Fast path: no content inspection needed
	if bd.IsBinaryByExtension(path) {
		return true
	}
	if len(content) == 0 {
		return false
	}

	sample := sampleOf(content)
	if hasControlBytes(sample) {
		return true
	}
	if utf8.Valid(content) {
		return false
	}
	if hasBinarySignature(sample) {
		return true
	}
	return !bd.IsTextMIME(content)
}

func sampleOf(content []byte) []byte {
	if len(content) > binarySampleSize {
		return content[:binarySampleSize]
	}
	return content
}

func hasBinarySignature(sample []byte) bool {
	for _, sig := range binarySignatures {
		if bytes.HasPrefix(sample, sig) {
			return true
		}
	}
	return false
}

// hasControlBytes reports NUL bytes or more than 30% C0 control characters.
// High bytes are left alone so UTF-8 text is not misclassified.
func hasControlBytes(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b < 0x20 && b != 0x09 && b != 0x0A && b != 0x0D && b != 0x0C {
			nonPrintable++
		}
	}
	return nonPrintable > len(sample)*30/100
}
