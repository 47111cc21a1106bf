package models

import (
	"io/fs"
	"time"
)

// Entry is a snapshot of one filesystem object on one side of a comparison.
// Entries are built once per traversal step and never mutated afterwards.
type Entry struct {
	// Name is the base name of the entry
	Name string
	// AbsolutePath is the full path on the filesystem
	AbsolutePath string
	// Path is the display path (may be relative to the user supplied root)
	Path string
	// Origin indicates which tree the entry belongs to
	Origin Origin
	// Stat is the metadata of the link target (or of the link itself for broken links)
	Stat fs.FileInfo
	// Lstat is the metadata of the entry itself
	Lstat fs.FileInfo

	IsDirectory        bool
	IsSymlink          bool
	IsBrokenLink       bool
	IsPermissionDenied bool
}

// Origin indicates which side of the comparison an entry comes from
type Origin string

const (
	// OriginLeft is the first tree
	OriginLeft Origin = "left"
	// OriginRight is the second tree
	OriginRight Origin = "right"
)

// Type returns the entry type used in Difference records.
// A nil entry is reported as missing.
func (e *Entry) Type() EntryType {
	switch {
	case e == nil:
		return TypeMissing
	case e.IsBrokenLink:
		return TypeBrokenLink
	case e.IsDirectory:
		return TypeDirectory
	default:
		return TypeFile
	}
}

// Size returns the size reported by Stat
func (e *Entry) Size() int64 {
	if e == nil || e.Stat == nil {
		return 0
	}
	return e.Stat.Size()
}

// ModTime returns the modification time reported by Stat
func (e *Entry) ModTime() time.Time {
	if e == nil || e.Stat == nil {
		return time.Time{}
	}
	return e.Stat.ModTime()
}

// EntryType categorizes an entry in a Difference record
type EntryType string

const (
	// TypeMissing indicates the entry does not exist on that side
	TypeMissing EntryType = "missing"
	// TypeFile indicates a regular file (or a symlink to one)
	TypeFile EntryType = "file"
	// TypeDirectory indicates a directory (or a symlink to one)
	TypeDirectory EntryType = "directory"
	// TypeBrokenLink indicates a symlink whose target cannot be resolved
	TypeBrokenLink EntryType = "broken-link"
)
