package service

import (
	"context"
	"errors"
	"testing"

	"assessment-service/internal/config"
	"assessment-service/internal/models"
	"assessment-service/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	levels  map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*models.User{}, levels: map[string]string{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{mongo.WriteError{Code: 11000}}}
	}
	user.ID = primitive.NewObjectID()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) UpdateSkillLevel(ctx context.Context, id string, level string) error {
	f.levels[id] = level
	return nil
}

type fakeAverager struct {
	avg float64
	err error
}

func (f *fakeAverager) AverageScoreForUser(ctx context.Context, userID string) (float64, error) {
	return f.avg, f.err
}

func newAuthService(avg float64) (*AuthService, *fakeUserStore) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	store := newFakeUserStore()
	return NewAuthService(store, &fakeAverager{avg: avg}), store
}

func TestRegisterHashesAndNormalizes(t *testing.T) {
	svc, store := newAuthService(0)

	if err := svc.Register(context.Background(), " Alice ", " A@X.com ", "pw123"); err != nil {
		t.Fatalf("Expected registration to succeed, got %v", err)
	}

	user, ok := store.byEmail["a@x.com"]
	if !ok {
		t.Fatal("Expected user stored under the normalized email")
	}
	if user.Name != "Alice" {
		t.Errorf("Expected trimmed name Alice, got %q", user.Name)
	}
	if user.PasswordHash == "pw123" {
		t.Error("Expected the password to be hashed, not stored verbatim")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")); err != nil {
		t.Errorf("Expected hash to verify against the password, got %v", err)
	}
	if user.SkillLevel != models.LevelBeginner {
		t.Errorf("Expected new users to start at %s, got %s", models.LevelBeginner, user.SkillLevel)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(0)

	if err := svc.Register(context.Background(), "alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Expected first registration to succeed, got %v", err)
	}
	err := svc.Register(context.Background(), "other", "a@x.com", "pw456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken for a duplicate email, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"no username", "", "a@x.com", "pw123"},
		{"no email", "alice", "", "pw123"},
		{"no password", "alice", "a@x.com", ""},
		{"whitespace username", "   ", "a@x.com", "pw123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newAuthService(0)
			err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("Expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newAuthService(0)

	if err := svc.Register(context.Background(), "alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Expected registration to succeed, got %v", err)
	}
	token, user, err := svc.Login(context.Background(), "A@X.com", "pw123")
	if err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}
	if token == "" {
		t.Fatal("Expected a bearer token")
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		t.Fatalf("Expected the issued token to validate, got %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("Expected token subject %s, got %s", user.ID.Hex(), claims.UserID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(0)
	if err := svc.Register(context.Background(), "alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Expected registration to succeed, got %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "pw123"},
		{"wrong password", "a@x.com", "wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginRefreshesSkillLevel(t *testing.T) {
	svc, store := newAuthService(9)

	if err := svc.Register(context.Background(), "alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Expected registration to succeed, got %v", err)
	}
	_, user, err := svc.Login(context.Background(), "a@x.com", "pw123")
	if err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}

	if user.SkillLevel != models.LevelAdvanced {
		t.Errorf("Expected skill level %s for average 9, got %s", models.LevelAdvanced, user.SkillLevel)
	}
	if store.levels[user.ID.Hex()] != models.LevelAdvanced {
		t.Errorf("Expected refreshed level persisted, got %q", store.levels[user.ID.Hex()])
	}
}
