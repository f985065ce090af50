package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recast/internal/format"
)

// TimestampLayout stamps every output of one batch.
const TimestampLayout = "20060102_150405"

// OutputName builds <stem>[_<percent>pct]_<stamp>.<ext>.
func OutputName(source string, target format.Target, percent int, stamp string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	b.WriteString(stem)
	if percent != 100 {
		fmt.Fprintf(&b, "_%dpct", percent)
	}
	b.WriteString("_")
	b.WriteString(stamp)
	b.WriteString(".")
	b.WriteString(target.Ext())
	return b.String()
}

// checkOutputDir proves dir exists and accepts new files.
func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputDir, dir)
	}

	probe, err := os.CreateTemp(dir, ".recast-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// commit writes data to dir/name through a temp file so a failed write
// never leaves a partial output behind. A temp file that cannot be created
// means the directory itself is unusable.
func commit(dir, name string, data []byte) (string, error) {
	destPath := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, ".recast-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := replaceFile(tmpFile.Name(), destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
