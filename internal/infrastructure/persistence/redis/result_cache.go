package redis

import (
	"context"
	"errors"

	"github.com/edutrack-pro/assessment-engine/internal/domain/course"
	"github.com/edutrack-pro/assessment-engine/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ResultCache is the cache-aside layer over the course repository. It serves
// course results and progression series, and is invalidated by the processing
// command after every successful save. A cache miss is reported as a nil
// value with a nil error; callers fall through to the repository.
type ResultCache struct {
	cache *Cache
}

// NewResultCache creates a new ResultCache.
func NewResultCache(cache *Cache) *ResultCache {
	return &ResultCache{cache: cache}
}

// GetCourse returns the cached result of one offering, or nil on a miss.
func (r *ResultCache) GetCourse(ctx context.Context, semester, courseCode string) (*course.Result, error) {
	var result course.Result
	err := r.cache.Get(ctx, CourseKey(semester, courseCode), &result)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// SetCourse caches one offering's result.
func (r *ResultCache) SetCourse(ctx context.Context, result *course.Result) error {
	if result == nil {
		return nil
	}
	return r.cache.Set(ctx, CourseKey(result.Semester, result.CourseCode), result, TTLCourseCache)
}

// GetProgression returns one student's cached series, or nil on a miss.
func (r *ResultCache) GetProgression(ctx context.Context, studentID string) ([]progression.Entry, error) {
	var entries []progression.Entry
	err := r.cache.Get(ctx, ProgressionKey(studentID), &entries)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

// SetProgression caches one student's series.
func (r *ResultCache) SetProgression(ctx context.Context, studentID string, entries []progression.Entry) error {
	return r.cache.Set(ctx, ProgressionKey(studentID), entries, TTLProgressionCache)
}

// InvalidateCourse drops the cached result of one offering together with the
// catalogue listing.
func (r *ResultCache) InvalidateCourse(ctx context.Context, semester, courseCode string) error {
	return r.cache.Delete(ctx, CourseKey(semester, courseCode), CatalogueKey())
}

// InvalidateStudents drops cached progression series for the given students.
func (r *ResultCache) InvalidateStudents(ctx context.Context, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	keys := make([]string, len(studentIDs))
	for i, id := range studentIDs {
		keys[i] = ProgressionKey(id)
	}
	return r.cache.Delete(ctx, keys...)
}
