// Package storage persists raw file bytes on the local filesystem. On-disk
// names are generated tokens, never the user-supplied name; image derivatives
// live next to the original as <name>_<width>.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
)

type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

// Write stores data under a generated unique name and returns the full path.
// A failure at any step leaves no file behind, so metadata can never
// reference a partial write.
func (d *Disk) Write(data []byte) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		logger.Error("disk_mkdir_failed", err, map[string]interface{}{
			"root": d.root,
		})
		return "", err
	}

	path := filepath.Join(d.root, uuid.New().String())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error("disk_create_failed", err, map[string]interface{}{
			"path": path,
		})
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		logger.Error("disk_write_failed", err, map[string]interface{}{
			"path": path,
			"size": len(data),
		})
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	logger.Info("disk_write_success", map[string]interface{}{
		"path": path,
		"size": len(data),
	})
	return path, nil
}

// Read returns the raw bytes at path.
func (d *Disk) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadVariant returns the bytes of the width-sized derivative of path. The
// error satisfies os.IsNotExist when the derivative has not been generated.
func (d *Disk) ReadVariant(path string, width int) ([]byte, error) {
	return os.ReadFile(VariantPath(path, width))
}

// VariantPath names a derived asset: the source path with a size marker.
func VariantPath(path string, width int) string {
	return fmt.Sprintf("%s_%d", path, width)
}
