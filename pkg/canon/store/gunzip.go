package store

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"

	"github.com/arxiv/canonical/pkg/errdefs"
)

// pgzipThreshold is the descriptor size above which gunzipping switches
// to the parallel reader. Classic source packages run to tens of
// megabytes, where pgzip's read-ahead goroutines pay off; metadata-sized
// blobs decompress faster single-threaded.
const pgzipThreshold = 1 << 20

// GunzipReader unwraps one gzip layer from r. sizeHint is the
// descriptor's size in bytes (the compressed size, if known; zero or
// negative when unknown) and only steers which decompressor is used.
func GunzipReader(r io.Reader, sizeHint int64) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if sizeHint > 0 && sizeHint < pgzipThreshold {
		rc, err = gzip.NewReader(r)
	} else {
		rc, err = pgzip.NewReader(r)
	}
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrInvalidParameter, err)
	}
	return rc, nil
}
