package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	SkillLevel   string             `bson:"skill_level" json:"skill_level"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// SkillLevelForAverage maps the mean score (0-10) of a user's assessment
// history to a skill level label.
func SkillLevelForAverage(avg float64) string {
	switch {
	case avg >= 8:
		return LevelAdvanced
	case avg >= 5:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}
