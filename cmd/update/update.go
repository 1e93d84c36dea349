// SPDX-License-Identifier: Apache-2.0
package update

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ProtonMail/gopenpgp/v3/crypto"
	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/github"
	"github.com/CLAV88/office-addin/pkg/util"
	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

// NewUpdateCmd creates the update command
func NewUpdateCmd(currentVersion, disableUpdate string) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update office-addin to the latest version",
		Long: `Update the office-addin binary to the latest version from GitHub releases.

This command:
  1. Checks for the latest release on GitHub
  2. Downloads the appropriate binary for your platform
  3. Verifies the PGP signature
  4. Verifies the SHA256 checksum
  5. Replaces the current binary

Security:
  - All downloads are verified with PGP signatures
  - Checksums are validated before installation
  - Uses the official signing key from releases`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSelf(currentVersion, disableUpdate)
		},
	}
}

func updateSelf(current, disableUpdate string) error {
	theme := config.CurrentTheme

	// Check if updates are disabled (set by package managers)
	if disableUpdate == "true" {
		fmt.Println()
		fmt.Printf("%s Updates are disabled for this installation\n", theme.WarningIndicator())
		fmt.Println()
		fmt.Println("This version was installed by a package manager.")
		fmt.Println("Use your package manager to update.")
		fmt.Println()
		return nil
	}

	log.Info("Checking for office-addin updates...")

	client := github.NewClient()
	parts := strings.Split(config.GitHubRepo, "/")

	release, err := client.GetLatestRelease(parts[0], parts[1])
	if err != nil {
		return fmt.Errorf("failed to fetch latest release: %w", err)
	}

	latest := github.StripVersionPrefix(release.TagName)
	currentVersion := github.StripVersionPrefix(current)

	upToDate, err := isUpToDate(currentVersion, latest)
	if err != nil {
		return err
	}
	if upToDate {
		fmt.Printf("%s Already on latest version: %s\n", theme.CompleteIndicator(), currentVersion)
		return nil
	}

	fmt.Printf("%s New version available: %s (current: %s)\n", theme.InfoIndicator(), latest, currentVersion)

	arch := runtime.GOARCH
	if arch != "amd64" && arch != "arm64" {
		return fmt.Errorf("unsupported architecture: %s (supported: amd64, arm64)", arch)
	}

	binaryName := fmt.Sprintf("office-addin-%s-%s", runtime.GOOS, arch)
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	compressedBinaryName := binaryName + ".xz"

	// Find required assets
	var binaryURL, checksumsURL, signatureURL, publicKeyURL string
	for _, asset := range release.Assets {
		switch asset.Name {
		case compressedBinaryName:
			binaryURL = asset.BrowserDownloadURL
		case "SHA256SUMS":
			checksumsURL = asset.BrowserDownloadURL
		case "SHA256SUMS.asc":
			signatureURL = asset.BrowserDownloadURL
		case "signing-key.asc":
			publicKeyURL = asset.BrowserDownloadURL
		}
	}

	if binaryURL == "" {
		return fmt.Errorf("could not find binary asset '%s' in release %s", compressedBinaryName, release.TagName)
	}
	if checksumsURL == "" {
		return fmt.Errorf("could not find SHA256SUMS in release %s", release.TagName)
	}
	if signatureURL == "" {
		return fmt.Errorf("could not find SHA256SUMS.asc in release %s", release.TagName)
	}
	if publicKeyURL == "" {
		return fmt.Errorf("could not find signing-key.asc in release %s", release.TagName)
	}

	// Create temp directory for downloads
	tempDir := filepath.Join(config.GlobalPaths.CacheDir, "update-"+latest)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	compressedBinaryPath := filepath.Join(tempDir, compressedBinaryName)
	binaryPath := filepath.Join(tempDir, binaryName)
	checksumsPath := filepath.Join(tempDir, "SHA256SUMS")
	signaturePath := filepath.Join(tempDir, "SHA256SUMS.asc")
	publicKeyPath := filepath.Join(tempDir, "signing-key.asc")

	// Download all files
	log.Info("Downloading update files...")

	binaryProgress := func(percent float64) {
		fmt.Printf("\r  Downloading %s... %3.0f%%", compressedBinaryName, percent*100)
	}
	if err := client.DownloadFile(binaryURL, compressedBinaryPath, binaryProgress); err != nil {
		return fmt.Errorf("failed to download binary: %w", err)
	}
	fmt.Printf("\r  %s Downloaded %s      \n", theme.CompleteIndicator(), compressedBinaryName)

	if err := client.DownloadFile(checksumsURL, checksumsPath, nil); err != nil {
		return fmt.Errorf("failed to download checksums: %w", err)
	}
	fmt.Printf("  %s Downloaded SHA256SUMS\n", theme.CompleteIndicator())

	if err := client.DownloadFile(signatureURL, signaturePath, nil); err != nil {
		return fmt.Errorf("failed to download signature: %w", err)
	}
	fmt.Printf("  %s Downloaded SHA256SUMS.asc\n", theme.CompleteIndicator())

	if err := client.DownloadFile(publicKeyURL, publicKeyPath, nil); err != nil {
		return fmt.Errorf("failed to download public key: %w", err)
	}
	fmt.Printf("  %s Downloaded signing-key.asc\n", theme.CompleteIndicator())

	// Verify signature
	log.Info("Verifying signature...")
	if err := verifySignature(checksumsPath, signaturePath, publicKeyPath); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	fmt.Printf("  %s Signature verified\n", theme.CompleteIndicator())

	// Verify checksum of compressed file
	log.Info("Verifying checksum...")
	if err := util.VerifySHA256File(compressedBinaryPath, checksumsPath); err != nil {
		return fmt.Errorf("checksum verification failed: %w", err)
	}
	fmt.Printf("  %s Checksum verified\n", theme.CompleteIndicator())

	// Decompress binary
	log.Info("Decompressing binary...")
	decompressProgress := func(percent float64) {
		fmt.Printf("\r  Decompressing... %3.0f%%", percent*100)
	}
	if err := util.DecompressXZ(compressedBinaryPath, binaryPath, decompressProgress); err != nil {
		return fmt.Errorf("failed to decompress binary: %w", err)
	}
	fmt.Printf("\r  %s Decompressed binary   \n", theme.CompleteIndicator())

	// Make executable
	if err := os.Chmod(binaryPath, 0755); err != nil {
		return fmt.Errorf("failed to make executable: %w", err)
	}

	// Get current binary path
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks if any
	realPath, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		realPath = exePath
	}

	// Replace current binary
	log.Info("Installing update...")
	data, err := os.ReadFile(binaryPath)
	if err != nil {
		return fmt.Errorf("failed to read new binary: %w", err)
	}

	if err := os.WriteFile(realPath, data, 0755); err != nil {
		return fmt.Errorf("failed to write new binary: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s Updated to version %s\n", theme.CompleteIndicator(), latest)
	fmt.Println()
	fmt.Println(theme.SubtleStyle().Render("Run 'office-addin version' to verify"))

	return nil
}

// isUpToDate compares the running version against the latest release.
// Dev builds with unparseable versions always update.
func isUpToDate(current, latest string) (bool, error) {
	latestVer, err := version.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("invalid release version %q: %w", latest, err)
	}

	currentVer, err := version.NewVersion(current)
	if err != nil {
		return false, nil
	}

	return currentVer.GreaterThanOrEqual(latestVer), nil
}

// verifySignature checks the detached PGP signature over the checksums
// file against the release signing key
func verifySignature(checksumsPath, signaturePath, publicKeyPath string) error {
	keyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	sigData, err := os.ReadFile(signaturePath)
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	message, err := os.ReadFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("failed to read checksums: %w", err)
	}

	key, err := crypto.NewKeyFromArmored(string(keyData))
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	verifier, err := crypto.PGP().Verify().VerificationKey(key).New()
	if err != nil {
		return fmt.Errorf("failed to create verifier: %w", err)
	}

	result, err := verifier.VerifyDetached(message, sigData, crypto.Armor)
	if err != nil {
		return fmt.Errorf("failed to verify signature: %w", err)
	}
	if err := result.SignatureError(); err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	return nil
}
