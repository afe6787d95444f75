// Package xer parses Primavera P6 XER schedule exports.
//
// An XER file is tab-delimited text organized into typed sections:
//
//	ERMHDR	19.12	...            optional file header
//	%T	TASK                       opens the TASK section
//	%F	task_id	task_name	...    column header
//	%R	1000	Mobilize	...        data row
//	%E                             closes the section
//
// The package extracts every section into a RawTable with normalized row
// lengths, and resolves the activity-code and UDF assignment tables into
// per-task lookup maps.
package xer

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrEmptyFile indicates zero-length input.
	ErrEmptyFile = errors.New("xer: file is empty")

	// ErrUnreadableFile indicates that no candidate encoding produced text
	// with a recognizable XER signature.
	ErrUnreadableFile = errors.New("xer: no XER format markers found in any candidate encoding")
)

// signatureSearchLines is how many non-blank lines are scanned for the
// ERMHDR token or a %T section marker during format detection.
const signatureSearchLines = 10

// candidateEncodings are tried in order. P6 exports are usually UTF-8 or
// Windows-1252; UTF-16 shows up from some European installs.
var candidateEncodings = []struct {
	name string
	enc  encoding.Encoding // nil means UTF-8 with replacement
}{
	{"utf-8", nil},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{"windows-1252", charmap.Windows1252},
	{"latin-1", charmap.ISO8859_1},
}

// Decode converts raw file bytes to text using the first candidate encoding
// whose output carries an XER signature. Decoding itself never fails: invalid
// sequences are replaced, and the signature check decides acceptance. The
// name of the accepted encoding is returned for diagnostics.
func Decode(data []byte) (text, encodingName string, err error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}

	for _, cand := range candidateEncodings {
		var decoded string
		if cand.enc == nil {
			decoded = decodeUTF8(data)
		} else {
			out, decErr := cand.enc.NewDecoder().Bytes(data)
			if decErr != nil {
				continue
			}
			decoded = string(out)
		}

		if hasXERSignature(decoded) {
			return decoded, cand.name, nil
		}
	}

	return "", "", ErrUnreadableFile
}

// decodeUTF8 returns data as a string, replacing invalid sequences with
// U+FFFD and stripping a leading BOM.
func decodeUTF8(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.String()
}

// hasXERSignature reports whether the first non-blank lines contain either
// the ERMHDR file header or a %T section marker.
func hasXERSignature(text string) bool {
	seen := 0
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "ERMHDR") || strings.HasPrefix(line, "%T\t") {
			return true
		}
		seen++
		if seen >= signatureSearchLines {
			break
		}
	}
	return false
}
