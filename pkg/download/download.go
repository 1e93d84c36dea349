// SPDX-License-Identifier: Apache-2.0
package download

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
)

// ProgressCallback receives the download completion ratio, 0 to 1.
// Only called when the server reports a content length.
type ProgressCallback func(percent float64)

// Options configures the download
type Options struct {
	ProgressCallback ProgressCallback
	Headers          map[string]string
}

// File downloads url to dest, reporting progress through the callback
func File(url, dest string, progressCallback ProgressCallback) error {
	return FileWithOptions(url, dest, &Options{
		ProgressCallback: progressCallback,
	})
}

// FileWithOptions downloads url to dest with custom request headers
func FileWithOptions(url, dest string, opts *Options) error {
	log.Debugf("Downloading %s to %s", url, dest)

	if opts == nil {
		opts = &Options{}
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	var src io.Reader = resp.Body
	if opts.ProgressCallback != nil && resp.ContentLength > 0 {
		src = io.TeeReader(resp.Body, &progressWriter{
			total:    resp.ContentLength,
			callback: opts.ProgressCallback,
		})
	}

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}

	log.Debugf("Download complete: %s", dest)
	return nil
}

// progressWriter counts bytes passing through and reports the ratio
// against the expected total
type progressWriter struct {
	total    int64
	written  int64
	callback ProgressCallback
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	w.callback(float64(w.written) / float64(w.total))
	return len(p), nil
}
