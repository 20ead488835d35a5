package repository

import (
	"bufio"
	"io"
	"strings"
)

// encoding/csv turns every \r\n into \n, including inside quoted cells,
// so multi-line text typed in a browser would not read back as written.
// crKeeper escapes the file stream before the csv reader sees it: inside
// quotes a CR becomes NUL 'r', and every NUL in the file becomes NUL NUL.
// Row terminators outside quotes pass through untouched. unescapeCell
// reverses the mapping on each parsed cell.
type crKeeper struct {
	r       *bufio.Reader
	quoted  bool
	pending byte
	hasNext bool
}

func newCRKeeper(r io.Reader) *crKeeper {
	return &crKeeper{r: bufio.NewReader(r)}
}

func (k *crKeeper) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if k.hasNext {
			p[n] = k.pending
			k.hasNext = false
			n++
			continue
		}
		b, err := k.r.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		switch {
		case b == '"':
			// "" inside a quoted cell toggles twice and leaves the state as is.
			k.quoted = !k.quoted
		case b == 0:
			k.pending, k.hasNext = 0, true
		case b == '\r' && k.quoted:
			b = 0
			k.pending, k.hasNext = 'r', true
		}
		p[n] = b
		n++
	}
	return n, nil
}

func unescapeCell(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 0 && i+1 < len(s) {
			i++
			if s[i] == 'r' {
				b.WriteByte('\r')
			} else {
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
