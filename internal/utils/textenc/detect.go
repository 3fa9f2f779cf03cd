// Package textenc converts uploaded and downloaded text between UTF-8 and the
// legacy code pages spreadsheet tools still produce.
package textenc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Names reported by NewUTF8Reader.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	ISO8859_9   = "ISO-8859-9"
	Windows1254 = "windows-1254"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader detects the encoding of r and returns a reader that yields
// UTF-8 along with the name of the detected encoding.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped, UTF-16 LE/BE is decoded)
//  2. valid UTF-8 passes through
//  3. chardet heuristics
//  4. Windows-1254
//
// Western single-byte guesses are decoded as Windows-1254: it shares every
// Latin-1 letter and adds the Turkish ones chardet cannot tell apart.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, 8192)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), UTF16BE, nil
	}

	if utf8.Valid(buf) {
		return br, UTF8, nil
	}

	if result, detectErr := chardet.NewTextDetector().DetectBest(buf); detectErr == nil {
		switch strings.ToUpper(result.Charset) {
		case "UTF-8":
			return br, UTF8, nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), ISO8859_9, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1254.NewDecoder()), Windows1254, nil
}

// NewWindows1254Writer wraps w so UTF-8 written to it is stored as
// Windows-1254. Runes outside the code page are replaced.
func NewWindows1254Writer(w io.Writer) io.Writer {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1254.NewEncoder()))
}
