package models

import "time"

// Community is the category a post is filed under.
type Community string

const (
	CommunityHistory  Community = "history"
	CommunityFood     Community = "food"
	CommunityPets     Community = "pets"
	CommunityHealth   Community = "health"
	CommunityFashion  Community = "fashion"
	CommunityExercise Community = "exercise"
	CommunityOthers   Community = "others"
)

// Communities lists every valid community in display order.
var Communities = []Community{
	CommunityHistory,
	CommunityFood,
	CommunityPets,
	CommunityHealth,
	CommunityFashion,
	CommunityExercise,
	CommunityOthers,
}

// Valid reports whether c is a known community.
func (c Community) Valid() bool {
	for _, known := range Communities {
		if c == known {
			return true
		}
	}
	return false
}

// Post represents a post published in a community.
type Post struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Community Community    `json:"community"`
	UserID    int64        `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      *UserSummary `json:"user,omitempty"`
}

// PostDetail is a post together with its comment tree.
type PostDetail struct {
	Post
	Comments []*CommentThread `json:"comments"`
}

// NewPost holds the fields of a post being created. An empty Community means
// CommunityOthers.
type NewPost struct {
	Title     string
	Content   string
	Community Community
}

// PostPatch holds the fields of a partial post update. Nil fields are left
// untouched.
type PostPatch struct {
	Title     *string
	Content   *string
	Community *Community
}

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Search    string
	Community Community
	UserID    int64
}
