package domain

import "time"

// FallbackCategorySlug names the category that receives posts whose category was deleted.
const (
	FallbackCategorySlug = "uncategorized"
	FallbackCategoryName = "Uncategorized"
)

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Description *string   `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type Post struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     *string    `gorm:"size:500" json:"excerpt"`
	Image       *string    `gorm:"size:500" json:"image"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
	AuthorID    string     `gorm:"size:36;not null;index" json:"authorId"`
	CategoryID  *string    `gorm:"size:36;index" json:"categoryId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"authorId"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is unique per (UserID, PostID); the index is what serializes concurrent upserts.
type Rating struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Value     int       `gorm:"not null" json:"value"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string { return "ratings" }

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{&User{}, &Category{}, &Post{}, &Comment{}, &Rating{}}
}
