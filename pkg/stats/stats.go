// Package stats accumulates comparison outcomes into models.Statistics.
package stats

import (
	"sync"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Aggregator counts outcomes during a traversal and derives totals once it ends.
// It is safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	stats     models.Statistics
	finalized bool
}

// New creates an aggregator. Symlink counters are only kept when symlinks are compared.
func New(compareSymlink bool) *Aggregator {
	a := &Aggregator{}
	if compareSymlink {
		a.stats.Symlinks = &models.SymlinkStatistics{}
	}
	return a
}

// AddEqual records a matched pair found identical
func (a *Aggregator) AddEqual(e1, e2 *models.Entry) {
	a.update(func(s *models.Statistics) {
		s.Equal++
		switch e1.Type() {
		case models.TypeFile:
			s.EqualFiles++
		case models.TypeDirectory:
			s.EqualDirs++
		}
		if s.Symlinks != nil && (e1.IsSymlink || e2.IsSymlink) {
			s.Symlinks.EqualSymlinks++
		}
	})
}

// AddDistinct records a matched pair found different
func (a *Aggregator) AddDistinct(e1, e2 *models.Entry, reason models.Reason, access models.PermissionDeniedState) {
	a.update(func(s *models.Statistics) {
		s.Distinct++
		switch {
		case reason == models.ReasonBrokenLink:
			s.BrokenLinks.DistinctBrokenLinks++
		case e1.Type() == models.TypeFile:
			s.DistinctFiles++
		case e1.Type() == models.TypeDirectory:
			s.DistinctDirs++
		case e1.Type() == models.TypeBrokenLink:
			s.BrokenLinks.DistinctBrokenLinks++
		}
		if access != models.AccessOK && access != "" {
			s.PermissionDenied.DistinctPermissionDenied++
		}
		if s.Symlinks != nil && reason == models.ReasonDifferentSymlink {
			s.Symlinks.DistinctSymlinks++
		}
	})
}

// AddLeft records an entry present only in the left tree
func (a *Aggregator) AddLeft(e *models.Entry) {
	a.update(func(s *models.Statistics) {
		s.Left++
		switch e.Type() {
		case models.TypeFile:
			s.LeftFiles++
		case models.TypeDirectory:
			s.LeftDirs++
		case models.TypeBrokenLink:
			s.BrokenLinks.LeftBrokenLinks++
		}
		if e.IsPermissionDenied {
			s.PermissionDenied.LeftPermissionDenied++
		}
		if s.Symlinks != nil && e.IsSymlink {
			s.Symlinks.LeftSymlinks++
		}
	})
}

// AddRight records an entry present only in the right tree
func (a *Aggregator) AddRight(e *models.Entry) {
	a.update(func(s *models.Statistics) {
		s.Right++
		switch e.Type() {
		case models.TypeFile:
			s.RightFiles++
		case models.TypeDirectory:
			s.RightDirs++
		case models.TypeBrokenLink:
			s.BrokenLinks.RightBrokenLinks++
		}
		if e.IsPermissionDenied {
			s.PermissionDenied.RightPermissionDenied++
		}
		if s.Symlinks != nil && e.IsSymlink {
			s.Symlinks.RightSymlinks++
		}
	})
}

func (a *Aggregator) update(fn func(s *models.Statistics)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		panic("stats: outcome added after Finalize")
	}
	fn(&a.stats)
}

// Finalize derives the totals and returns the final statistics.
// It must be called exactly once, after the traversal completed.
func (a *Aggregator) Finalize() models.Statistics {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		panic("stats: Finalize called twice")
	}
	a.finalized = true

	s := &a.stats
	s.Differences = s.Distinct + s.Left + s.Right
	s.DifferencesFiles = s.DistinctFiles + s.LeftFiles + s.RightFiles
	s.DifferencesDirs = s.DistinctDirs + s.LeftDirs + s.RightDirs
	s.Total = s.Equal + s.Differences
	s.TotalFiles = s.EqualFiles + s.DifferencesFiles
	s.TotalDirs = s.EqualDirs + s.DifferencesDirs
	s.Same = s.Differences == 0

	b := &s.BrokenLinks
	b.TotalBrokenLinks = b.LeftBrokenLinks + b.RightBrokenLinks + b.DistinctBrokenLinks

	p := &s.PermissionDenied
	p.TotalPermissionDenied = p.LeftPermissionDenied + p.RightPermissionDenied + p.DistinctPermissionDenied

	if sl := s.Symlinks; sl != nil {
		sl.DifferencesSymlinks = sl.DistinctSymlinks + sl.LeftSymlinks + sl.RightSymlinks
		sl.TotalSymlinks = sl.EqualSymlinks + sl.DifferencesSymlinks
	}

	out := *s
	if s.Symlinks != nil {
		sl := *s.Symlinks
		out.Symlinks = &sl
	}
	return out
}

// Verify checks the sum identities of finalized statistics.
// It returns the name of the first violated identity, or "" when all hold.
func Verify(s models.Statistics) string {
	switch {
	case s.Differences != s.Distinct+s.Left+s.Right:
		return "differences"
	case s.Total != s.Equal+s.Differences:
		return "total"
	case s.DifferencesFiles != s.DistinctFiles+s.LeftFiles+s.RightFiles:
		return "differencesFiles"
	case s.DifferencesDirs != s.DistinctDirs+s.LeftDirs+s.RightDirs:
		return "differencesDirs"
	case s.TotalFiles != s.EqualFiles+s.DifferencesFiles:
		return "totalFiles"
	case s.TotalDirs != s.EqualDirs+s.DifferencesDirs:
		return "totalDirs"
	case s.BrokenLinks.TotalBrokenLinks != s.BrokenLinks.LeftBrokenLinks+s.BrokenLinks.RightBrokenLinks+s.BrokenLinks.DistinctBrokenLinks:
		return "totalBrokenLinks"
	case s.PermissionDenied.TotalPermissionDenied != s.PermissionDenied.LeftPermissionDenied+
		s.PermissionDenied.RightPermissionDenied+s.PermissionDenied.DistinctPermissionDenied:
		return "totalPermissionDenied"
	case s.Same != (s.Differences == 0):
		return "same"
	}
	if sl := s.Symlinks; sl != nil {
		if sl.DifferencesSymlinks != sl.DistinctSymlinks+sl.LeftSymlinks+sl.RightSymlinks {
			return "differencesSymlinks"
		}
		if sl.TotalSymlinks != sl.EqualSymlinks+sl.DifferencesSymlinks {
			return "totalSymlinks"
		}
	}
	return ""
}
