package s3

import (
	"io"

	"github.com/openhaus/listing-service/internal/listing/domain"
)

// progressReader counts bytes as they are read from the upload body and
// reports the running total to the observer. Completion is signalled by
// the upload call itself, not by the reader.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	fn          domain.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn domain.ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.transferred += int64(n)
		p.fn(p.transferred, p.total)
	}
	return n, err
}
