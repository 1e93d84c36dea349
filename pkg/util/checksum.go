// SPDX-License-Identifier: Apache-2.0
package util

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// VerifySHA256File checks the hash of filePath against the entry for
// its base name in a SHA256SUMS file
func VerifySHA256File(filePath, checksumsPath string) error {
	log.Debugf("Verifying SHA256 checksum for %s", filePath)

	actual, err := CalculateSHA256(filePath)
	if err != nil {
		return err
	}

	checksums, err := ParseSHA256SUMSFile(checksumsPath)
	if err != nil {
		return err
	}

	name := filepath.Base(filePath)
	expected, ok := checksums[name]
	if !ok {
		return fmt.Errorf("no checksum entry for %s", name)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", name, expected, actual)
	}

	log.Debugf("Checksum verified for %s", name)
	return nil
}

// CalculateSHA256 returns the hex-encoded SHA256 digest of a file
func CalculateSHA256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", filePath, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ParseSHA256SUMSFile reads a coreutils-style SHA256SUMS file into a
// filename to hash map. Lines are "hash  filename" with an optional
// leading * on the filename for binary mode.
func ParseSHA256SUMSFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checksums file: %w", err)
	}
	defer f.Close()

	checksums := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		checksums[strings.TrimPrefix(fields[1], "*")] = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksums file: %w", err)
	}

	return checksums, nil
}
