package models

import (
	"time"
)

// State is the outcome of comparing one pair or one unmatched entry
type State string

const (
	// StateEqual indicates both entries exist and are considered identical
	StateEqual State = "equal"
	// StateLeft indicates the entry exists only in the left tree
	StateLeft State = "left"
	// StateRight indicates the entry exists only in the right tree
	StateRight State = "right"
	// StateDistinct indicates both entries exist but differ
	StateDistinct State = "distinct"
)

// Reason explains why two entries are distinct
type Reason string

const (
	// ReasonNone is used when entries are not distinct or differ by type only
	ReasonNone Reason = ""
	// ReasonDifferentSize indicates different byte sizes
	ReasonDifferentSize Reason = "different-size"
	// ReasonDifferentDate indicates modification times outside the tolerance
	ReasonDifferentDate Reason = "different-date"
	// ReasonDifferentContent indicates different file content
	ReasonDifferentContent Reason = "different-content"
	// ReasonDifferentSymlink indicates different symlink identities
	ReasonDifferentSymlink Reason = "different-symlink"
	// ReasonBrokenLink indicates at least one side is a broken link
	ReasonBrokenLink Reason = "broken-link"
	// ReasonPermissionDenied indicates at least one side could not be read
	ReasonPermissionDenied Reason = "permission-denied"
)

// PermissionDeniedState identifies which sides of a pair could not be accessed
type PermissionDeniedState string

const (
	AccessOK         PermissionDeniedState = "access-ok"
	AccessErrorLeft  PermissionDeniedState = "access-error-left"
	AccessErrorRight PermissionDeniedState = "access-error-right"
	AccessErrorBoth  PermissionDeniedState = "access-error-both"
)

// Difference is one reported outcome for a matched pair or an unmatched entry
type Difference struct {
	// Path1 is the display path of the parent directory of the left entry
	Path1 string `json:"path1,omitempty"`
	// Path2 is the display path of the parent directory of the right entry
	Path2        string `json:"path2,omitempty"`
	RelativePath string `json:"relativePath"`
	Name1        string `json:"name1,omitempty"`
	Name2        string `json:"name2,omitempty"`

	State State     `json:"state"`
	Type1 EntryType `json:"type1"`
	Type2 EntryType `json:"type2"`

	// Reason is only set for distinct pairs
	Reason                Reason                `json:"reason,omitempty"`
	PermissionDeniedState PermissionDeniedState `json:"permissionDeniedState"`

	Size1 *int64     `json:"size1,omitempty"`
	Size2 *int64     `json:"size2,omitempty"`
	Date1 *time.Time `json:"date1,omitempty"`
	Date2 *time.Time `json:"date2,omitempty"`

	// Level is the traversal depth, 0 for direct children of the roots
	Level int `json:"level"`
}

// Statistics holds the counters of one comparison.
// Derived fields are only valid once the statistics have been finalized.
type Statistics struct {
	Equal    int `json:"equal"`
	Distinct int `json:"distinct"`
	Left     int `json:"left"`
	Right    int `json:"right"`

	EqualFiles    int `json:"equalFiles"`
	DistinctFiles int `json:"distinctFiles"`
	LeftFiles     int `json:"leftFiles"`
	RightFiles    int `json:"rightFiles"`

	EqualDirs    int `json:"equalDirs"`
	DistinctDirs int `json:"distinctDirs"`
	LeftDirs     int `json:"leftDirs"`
	RightDirs    int `json:"rightDirs"`

	BrokenLinks      BrokenLinksStatistics      `json:"brokenLinks"`
	PermissionDenied PermissionDeniedStatistics `json:"permissionDenied"`
	// Symlinks is only populated when symlinks are compared
	Symlinks *SymlinkStatistics `json:"symlinks,omitempty"`

	// Derived totals
	Differences      int  `json:"differences"`
	DifferencesFiles int  `json:"differencesFiles"`
	DifferencesDirs  int  `json:"differencesDirs"`
	Total            int  `json:"total"`
	TotalFiles       int  `json:"totalFiles"`
	TotalDirs        int  `json:"totalDirs"`
	Same             bool `json:"same"`
}

// BrokenLinksStatistics counts broken links
type BrokenLinksStatistics struct {
	LeftBrokenLinks     int `json:"leftBrokenLinks"`
	RightBrokenLinks    int `json:"rightBrokenLinks"`
	DistinctBrokenLinks int `json:"distinctBrokenLinks"`
	TotalBrokenLinks    int `json:"totalBrokenLinks"`
}

// PermissionDeniedStatistics counts entries that could not be accessed
type PermissionDeniedStatistics struct {
	LeftPermissionDenied     int `json:"leftPermissionDenied"`
	RightPermissionDenied    int `json:"rightPermissionDenied"`
	DistinctPermissionDenied int `json:"distinctPermissionDenied"`
	TotalPermissionDenied    int `json:"totalPermissionDenied"`
}

// SymlinkStatistics counts symlinks when symlink comparison is enabled
type SymlinkStatistics struct {
	EqualSymlinks       int `json:"equalSymlinks"`
	DistinctSymlinks    int `json:"distinctSymlinks"`
	LeftSymlinks        int `json:"leftSymlinks"`
	RightSymlinks       int `json:"rightSymlinks"`
	DifferencesSymlinks int `json:"differencesSymlinks"`
	TotalSymlinks       int `json:"totalSymlinks"`
}

// Status is the overall outcome used for process exit codes
type Status string

const (
	// StatusSame indicates no differences were found
	StatusSame Status = "same"
	// StatusDifferent indicates at least one difference was found
	StatusDifferent Status = "different"
	// StatusFailed indicates the comparison aborted
	StatusFailed Status = "failed"
)

// ExitCode returns the appropriate exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusSame:
		return 0
	case StatusDifferent:
		return 1
	default:
		return 2
	}
}
