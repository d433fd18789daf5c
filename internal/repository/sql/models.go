package sqlstore

import "time"

// Row models are private to this package; repositories convert them to the
// domain types. The association fields exist so AutoMigrate declares the
// foreign keys. They are never loaded or saved.

type userRow struct {
	ID        int64     `gorm:"primaryKey"`
	Username  string    `gorm:"size:80;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;size:255;not null"` // bcrypt hash
	CreatedAt time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type workoutRow struct {
	ID        int64   `gorm:"primaryKey"`
	UserID    int64   `gorm:"not null;index"`
	User      userRow `gorm:"foreignKey:UserID"`
	Name      string  `gorm:"size:255;not null"`
	Age       *int
	Level     string    `gorm:"size:50"`
	PlanJSON  string    `gorm:"column:plan_json;type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

func (workoutRow) TableName() string { return "workouts" }

type postRow struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index"`
	User      userRow   `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (postRow) TableName() string { return "posts" }

type commentRow struct {
	ID        int64     `gorm:"primaryKey"`
	PostID    int64     `gorm:"not null;index"`
	Post      postRow   `gorm:"foreignKey:PostID"`
	UserID    int64     `gorm:"not null"`
	User      userRow   `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (commentRow) TableName() string { return "comments" }

// At most one reaction per (post, user).
type reactionRow struct {
	ID           int64   `gorm:"primaryKey"`
	PostID       int64   `gorm:"not null;uniqueIndex:idx_reactions_post_user,priority:1"`
	Post         postRow `gorm:"foreignKey:PostID"`
	UserID       int64   `gorm:"not null;uniqueIndex:idx_reactions_post_user,priority:2"`
	User         userRow `gorm:"foreignKey:UserID"`
	ReactionType string  `gorm:"size:20;not null"`
}

func (reactionRow) TableName() string { return "reactions" }
