package cifar

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// Download fetches and extracts the source's binary archive under baseDir if
// the extracted directory is not already there. The tarball's sha256 is
// verified before extraction.
func Download(source Source, baseDir string) error {
	targetDir := filepath.Join(baseDir, source.subDir())
	if fileExists(targetDir) {
		return nil
	}
	tarFile := filepath.Join(baseDir, path.Base(source.url()))
	if !fileExists(tarFile) {
		if err := downloadFile(source.url(), tarFile); err != nil {
			return err
		}
	}
	if err := validateChecksum(tarFile, source.checksum()); err != nil {
		return err
	}
	if err := untar(tarFile, baseDir); err != nil {
		return err
	}
	if !fileExists(targetDir) {
		return errors.Errorf("extracted %q but directory %q did not appear", tarFile, targetDir)
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// downloadFile saves url to filePath, creating parent directories as needed
// and displaying a progress bar.
func downloadFile(url, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", filePath)
	}
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "downloading %q", url)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("downloading %q: %s", url, resp.Status)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "creating %q", filePath)
	}
	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading "+path.Base(url))
	size, err := io.Copy(io.MultiWriter(f, bar), resp.Body)
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "downloading %q to %q", url, filePath)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", filePath)
	}
	fmt.Printf("downloaded %s (%s)\n", filePath, humanize.Bytes(uint64(size)))
	return nil
}

// validateChecksum compares the sha256 of the file against the expected hex
// digest.
func validateChecksum(filePath, want string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "opening %q for checksum", filePath)
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return errors.Wrapf(err, "hashing %q", filePath)
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != want {
		return errors.Errorf("checksum mismatch for %q: got %s, want %s -- delete the file and retry", filePath, got, want)
	}
	return nil
}

// untar extracts a .tar.gz archive into baseDir.
func untar(tarFile, baseDir string) error {
	f, err := os.Open(tarFile)
	if err != nil {
		return errors.Wrapf(err, "opening %q", tarFile)
	}
	defer func() { _ = f.Close() }()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "un-gzipping %q", tarFile)
	}
	tr := tar.NewReader(gz)
	cleanBase := filepath.Clean(baseDir)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading tar %q", tarFile)
		}
		target := filepath.Join(baseDir, hdr.Name)
		if !strings.HasPrefix(filepath.Clean(target), cleanBase+string(os.PathSeparator)) {
			return errors.Errorf("tar entry %q escapes %q", hdr.Name, baseDir)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %q", target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return errors.Wrapf(err, "creating directory for %q", target)
			}
			out, err := os.Create(target)
			if err != nil {
				return errors.Wrapf(err, "creating %q", target)
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return errors.Wrapf(err, "extracting %q", target)
			}
			if err := out.Close(); err != nil {
				return errors.Wrapf(err, "closing %q", target)
			}
		}
	}
	return nil
}
