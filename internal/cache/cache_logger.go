package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateClassroomCache drops the classroom row plus any gradebook stats
// derived from it. Called after membership or assignment changes.
func InvalidateClassroomCache(ctx context.Context, cm *CacheManager, classroomID uint) {
	SafeDelete(ctx, cm.Classroom, fmt.Sprintf("id:%d", classroomID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("classroom:%d:*", classroomID))
}

// InvalidateAssignmentCache drops an assignment row and its per-assignment
// analytics entries.
func InvalidateAssignmentCache(ctx context.Context, cm *CacheManager, assignmentID uint) {
	SafeDelete(ctx, cm.Assignment, fmt.Sprintf("id:%d", assignmentID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("assignment:%d:*", assignmentID))
}
