package util

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileInfo contains extended file information, including modification time, size, and inode number.
type FileInfo struct {
	ModTime int64  // Last modification time of the file (Unix nanoseconds)
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number (unique file identifier on Unix-like systems)
}

// GetFileInfo retrieves detailed file information, including inode number.
// Supported on Linux and macOS.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var sysStat unix.Stat_t
	if err := unix.Stat(path, &sysStat); err != nil {
		return nil, fmt.Errorf("failed to get file system information: %s: %w", path, err)
	}

	return &FileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}

// SameFile reports whether two snapshots describe unchanged content.
func (f *FileInfo) SameFile(other *FileInfo) bool {
	if f == nil || other == nil {
		return false
	}
	return f.Inode == other.Inode && f.Size == other.Size && f.ModTime == other.ModTime
}
