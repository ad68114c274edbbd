package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"assessment-service/internal/models"
	"assessment-service/internal/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// UserStore is the user lifecycle the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateSkillLevel(ctx context.Context, id string, level string) error
}

// ScoreAverager computes the mean score across a user's history.
type ScoreAverager interface {
	AverageScoreForUser(ctx context.Context, userID string) (float64, error)
}

type AuthService struct {
	Users       UserStore
	Assessments ScoreAverager
}

func NewAuthService(users UserStore, assessments ScoreAverager) *AuthService {
	return &AuthService{Users: users, Assessments: assessments}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		SkillLevel:   models.LevelBeginner,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Login verifies the credentials, refreshes the user's skill level from
// their assessment history and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if avg, err := s.Assessments.AverageScoreForUser(ctx, user.ID.Hex()); err == nil {
		level := models.SkillLevelForAverage(avg)
		if level != user.SkillLevel {
			user.SkillLevel = level
			if err := s.Users.UpdateSkillLevel(ctx, user.ID.Hex(), level); err != nil {
				log.Printf("Failed to persist skill level for %s: %v", user.ID.Hex(), err)
			}
		}
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
