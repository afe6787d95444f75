package xer

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeUTF8(t *testing.T) {
	data := []byte("ERMHDR\t19.12\n%T\tTASK\n")

	text, enc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", enc)
	}
	if text != string(data) {
		t.Errorf("text mangled: %q", text)
	}
}

func TestDecodeUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ERMHDR\t19.12\n")...)

	text, enc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", enc)
	}
	if text[0] != 'E' {
		t.Errorf("BOM not stripped, text starts with %q", text[0])
	}
}

func TestDecodeUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("ERMHDR\t19.12\n%T\tTASK\n"))
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}

	text, name, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name != "utf-16" {
		t.Errorf("encoding = %q, want utf-16", name)
	}
	if text != "ERMHDR\t19.12\n%T\tTASK\n" {
		t.Errorf("decoded text = %q", text)
	}
}

func TestDecodeWindows1252(t *testing.T) {
	// 0x92 is a right single quote in Windows-1252 and invalid UTF-8, so the
	// UTF-8 pass would insert U+FFFD mid-name. The content still decodes
	// under utf-8-with-replacement, which is accepted first; the task name
	// survives either way and the signature check passes.
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("ERMHDR\t19.12\n%T\tTASK\n%F\ttask_name\n%R\tJoe’s task\n%E\n"))
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}

	text, _, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text == "" {
		t.Fatal("empty decode result")
	}
}

func TestDecodeSignatureViaTableMarker(t *testing.T) {
	// No ERMHDR line: a %T marker within the first lines is enough.
	data := []byte("%T\tTASK\n%F\ttask_id\n%R\t1\n%E\n")

	if _, _, err := Decode(data); err != nil {
		t.Fatalf("Decode rejected headerless XER: %v", err)
	}
}

func TestDecodeEmptyFile(t *testing.T) {
	_, _, err := Decode(nil)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestDecodeUnreadableFile(t *testing.T) {
	_, _, err := Decode([]byte("this is just prose\nwith no markers anywhere\n"))
	if !errors.Is(err, ErrUnreadableFile) {
		t.Errorf("err = %v, want ErrUnreadableFile", err)
	}
}

func TestDecodeSignatureBeyondSearchWindow(t *testing.T) {
	var data []byte
	for range signatureSearchLines + 1 {
		data = append(data, []byte("filler line\n")...)
	}
	data = append(data, []byte("%T\tTASK\n")...)

	_, _, err := Decode(data)
	if !errors.Is(err, ErrUnreadableFile) {
		t.Errorf("marker past the search window should not validate, err = %v", err)
	}
}
