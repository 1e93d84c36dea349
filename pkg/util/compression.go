// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ulikunitz/xz"
)

// DecompressXZ decompresses an xz file, reporting the ratio of
// compressed bytes consumed through the optional callback. Progress
// tracks the input side since the decompressed size is unknown up front.
func DecompressXZ(src, dst string, progressCallback func(float64)) error {
	log.Debugf("Decompressing %s to %s", src, dst)

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	var reader io.Reader = in
	if progressCallback != nil {
		info, err := in.Stat()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", src, err)
		}
		reader = &progressReader{
			reader:   in,
			total:    info.Size(),
			callback: progressCallback,
			lastPct:  -1,
		}
	}

	xzReader, err := xz.NewReader(reader)
	if err != nil {
		return fmt.Errorf("failed to read xz stream: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, xzReader); err != nil {
		return fmt.Errorf("failed to decompress: %w", err)
	}

	if progressCallback != nil {
		progressCallback(1.0)
	}

	log.Debugf("Decompressed to %s", dst)
	return nil
}

// progressReader reports consumed input in 1% steps to keep callback
// traffic bounded on large archives
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback func(float64)
	lastPct  float64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	if pr.total > 0 {
		pct := float64(pr.read) / float64(pr.total)
		if pct > 1.0 {
			pct = 1.0
		}
		if pct-pr.lastPct >= 0.01 {
			pr.callback(pct)
			pr.lastPct = pct
		}
	}

	return n, err
}
