package store

import "taskdeck/internal/models"

// CommentStore caches per-task comment lists with independent
// loading/error state, keyed by task id. No entry exists for a task
// whose comments were never requested; unseen keys read as empty,
// not-loading, no-error.
type CommentStore struct {
	comments map[int64][]models.Comment
	loading  map[int64]bool
	errs     map[int64]string
}

// NewCommentStore creates an empty comment store
func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[int64][]models.Comment),
		loading:  make(map[int64]bool),
		errs:     make(map[int64]string),
	}
}

// SetComments replaces the cached list for a task
func (s *CommentStore) SetComments(taskID int64, comments []models.Comment) {
	s.comments[taskID] = comments
}

// AddComment appends a comment, initializing the list if the task has
// none cached yet.
func (s *CommentStore) AddComment(taskID int64, comment models.Comment) {
	s.comments[taskID] = append(s.comments[taskID], comment)
}

// RemoveComment filters out the comment with the given id; a no-op if
// absent. The result is a fresh slice so snapshots handed out by
// Comments are never mutated underneath a caller.
func (s *CommentStore) RemoveComment(taskID, commentID int64) {
	list, ok := s.comments[taskID]
	if !ok {
		return
	}
	out := make([]models.Comment, 0, len(list))
	for _, c := range list {
		if c.ID != commentID {
			out = append(out, c)
		}
	}
	s.comments[taskID] = out
}

// SetLoading sets the per-task loading flag
func (s *CommentStore) SetLoading(taskID int64, loading bool) {
	s.loading[taskID] = loading
}

// SetError sets the per-task error message, "" for none
func (s *CommentStore) SetError(taskID int64, msg string) {
	s.errs[taskID] = msg
}

// ClearComments drops the task's entries from all three maps. For
// display purposes an absent key reads the same as a present key with
// default values; clearing exists for memory hygiene.
func (s *CommentStore) ClearComments(taskID int64) {
	delete(s.comments, taskID)
	delete(s.loading, taskID)
	delete(s.errs, taskID)
}

// Reset drops every cached task. Logout goes through here so the next
// session never sees another account's comments.
func (s *CommentStore) Reset() {
	s.comments = make(map[int64][]models.Comment)
	s.loading = make(map[int64]bool)
	s.errs = make(map[int64]string)
}

// Comments returns the cached list for a task, nil if never loaded
func (s *CommentStore) Comments(taskID int64) []models.Comment {
	return s.comments[taskID]
}

// HasComments reports whether a list is cached for the task, even an
// empty one. The comment panel uses this with Loading as its fetch
// guard: already loading or already loaded means no new request.
func (s *CommentStore) HasComments(taskID int64) bool {
	_, ok := s.comments[taskID]
	return ok
}

// Loading reports whether a fetch is in flight for the task
func (s *CommentStore) Loading(taskID int64) bool {
	return s.loading[taskID]
}

// Error returns the task's error message, "" for none
func (s *CommentStore) Error(taskID int64) string {
	return s.errs[taskID]
}
