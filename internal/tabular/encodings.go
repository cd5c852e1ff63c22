// Package tabular reads and writes the flat CSV tables that carry labels and
// predictions between pipeline stages.
//
// Tables are often edited by hand in spreadsheet tools, so their text
// encoding is not known in advance. Readers try an ordered list of candidate
// encodings and keep the first one that decodes the file cleanly. Writers
// always emit UTF-8 with a byte-order mark.
package tabular

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// utf8BOM is the byte-order mark written at the start of every table.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding is one candidate text encoding for a table file.
type Encoding struct {
	decode func([]byte) (string, error)
	Name   string
}

// Decode converts raw file bytes to UTF-8 text. It fails when the bytes are
// not valid in this encoding.
func (e Encoding) Decode(raw []byte) (string, error) {
	return e.decode(raw)
}

// DefaultEncodings returns the names tried when none are configured:
// UTF-8 with signature, plain UTF-8, then the Korean legacy code pages.
func DefaultEncodings() []string {
	return []string{"utf-8-sig", "utf-8", "cp949", "euc-kr"}
}

var registry = map[string]func([]byte) (string, error){
	"utf-8-sig":    decodeUTF8Sig,
	"utf-8":        decodeUTF8,
	"cp949":        legacyDecoder(korean.EUCKR),
	"euc-kr":       legacyDecoder(korean.EUCKR),
	"shift_jis":    legacyDecoder(japanese.ShiftJIS),
	"euc-jp":       legacyDecoder(japanese.EUCJP),
	"gbk":          legacyDecoder(simplifiedchinese.GBK),
	"gb18030":      legacyDecoder(simplifiedchinese.GB18030),
	"big5":         legacyDecoder(traditionalchinese.Big5),
	"windows-1252": legacyDecoder(charmap.Windows1252),
	"iso-8859-1":   legacyDecoder(charmap.ISO8859_1),
	"utf-16":       legacyDecoder(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)),
}

var aliases = map[string]string{
	"utf8":     "utf-8",
	"utf8-sig": "utf-8-sig",
	"uhc":      "cp949",
	"euckr":    "euc-kr",
	"sjis":     "shift_jis",
	"cp932":    "shift_jis",
	"cp936":    "gbk",
	"cp1252":   "windows-1252",
	"latin-1":  "iso-8859-1",
	"latin1":   "iso-8859-1",
}

// LookupEncoding returns the named encoding. Names are case-insensitive.
func LookupEncoding(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	decode, ok := registry[key]
	if !ok {
		return Encoding{}, fmt.Errorf("unknown encoding %q", name)
	}
	return Encoding{Name: key, decode: decode}, nil
}

// ResolveEncodings looks up each name in order.
func ResolveEncodings(names []string) ([]Encoding, error) {
	if len(names) == 0 {
		names = DefaultEncodings()
	}
	encodings := make([]Encoding, 0, len(names))
	for _, name := range names {
		enc, err := LookupEncoding(name)
		if err != nil {
			return nil, err
		}
		encodings = append(encodings, enc)
	}
	return encodings, nil
}

func decodeUTF8Sig(raw []byte) (string, error) {
	return decodeUTF8(bytes.TrimPrefix(raw, utf8BOM))
}

func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	}
	return string(raw), nil
}

// legacyDecoder adapts an x/text encoding. Those decoders substitute U+FFFD
// for bytes they cannot map instead of failing, so a replacement character
// in the output is treated as a decoding error.
func legacyDecoder(enc encoding.Encoding) func([]byte) (string, error) {
	return func(raw []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", fmt.Errorf("undecodable byte sequence")
		}
		return string(out), nil
	}
}
