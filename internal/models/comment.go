package models

import "time"

// Comment is a comment on a post. A nil ParentID marks a top-level comment;
// otherwise the comment is a reply to ParentID.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	PostID    int64     `json:"postId"`
	ParentID  *int64    `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *Author   `json:"user,omitempty"`
}

// IsTopLevel reports whether the comment starts a thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// Author is the user shown next to a comment.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CommentThread is a top-level comment with its direct replies.
type CommentThread struct {
	*Comment
	Children []*Comment `json:"children"`
}

// NewComment holds the fields of a comment being created.
type NewComment struct {
	Content  string
	PostID   int64
	ParentID *int64
}

// CommentPatch holds the fields of a partial comment update.
type CommentPatch struct {
	Content *string
}

// CommentFilter narrows a comment listing. Zero values mean "no filter".
type CommentFilter struct {
	PostID int64
	UserID int64
	Search string
}
