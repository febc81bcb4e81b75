package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rentify/internal/auth"
	"rentify/internal/errors"
	"rentify/internal/model"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 24*time.Hour)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      RegisterInput
		setupMock  func(*MockAccountRepository)
		wantStatus int
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "somchai", Email: "somchai@example.com", Password: "password123"},
			setupMock: func(m *MockAccountRepository) {
				m.On("ExistsByUsernameOrEmail", mock.Anything, "somchai", "somchai@example.com").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Account")).Return(nil)
			},
		},
		{
			name:  "duplicate username or email",
			input: RegisterInput{Username: "somchai", Email: "somchai@example.com", Password: "password123"},
			setupMock: func(m *MockAccountRepository) {
				m.On("ExistsByUsernameOrEmail", mock.Anything, "somchai", "somchai@example.com").Return(true, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService())
			account, token, err := service.Register(context.Background(), tt.input)

			if tt.wantStatus != 0 {
				assertStatus(t, err, tt.wantStatus)
				assert.Nil(t, account)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, account)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.input.Username, account.Username)
				assert.Equal(t, model.RoleUser, account.Role)
				assert.NotEmpty(t, account.PasswordHash)
				assert.NotEqual(t, tt.input.Password, account.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		password   string
		setupMock  func(t *testing.T, m *MockAccountRepository)
		wantStatus int
	}{
		{
			name:       "login by username",
			identifier: "somchai",
			password:   "password123",
			setupMock: func(t *testing.T, m *MockAccountRepository) {
				m.On("FindByIdentifier", mock.Anything, "somchai").Return(&model.Account{
					ID:           uuid.New(),
					Username:     "somchai",
					Email:        "somchai@example.com",
					PasswordHash: hashOf(t, "password123"),
					Role:         model.RoleUser,
				}, nil)
			},
		},
		{
			name:       "no account matches the identifier",
			identifier: "nobody",
			password:   "password123",
			setupMock: func(t *testing.T, m *MockAccountRepository) {
				m.On("FindByIdentifier", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong password",
			identifier: "somchai@example.com",
			password:   "wrong",
			setupMock: func(t *testing.T, m *MockAccountRepository) {
				m.On("FindByIdentifier", mock.Anything, "somchai@example.com").Return(&model.Account{
					ID:           uuid.New(),
					Email:        "somchai@example.com",
					PasswordHash: hashOf(t, "password123"),
				}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(t, mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService())
			account, token, err := service.Login(context.Background(), tt.identifier, tt.password)

			if tt.wantStatus != 0 {
				assertStatus(t, err, tt.wantStatus)
				assert.Nil(t, account)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, account)
				assert.NotEmpty(t, token)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	accountID := uuid.New()
	storedHash := hashOf(t, "current-pass")

	tests := []struct {
		name       string
		current    string
		newPass    string
		confirm    string
		setupMock  func(*MockAccountRepository)
		wantStatus int
	}{
		{
			name:    "successful change",
			current: "current-pass",
			newPass: "new-pass",
			confirm: "new-pass",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByID", mock.Anything, accountID).Return(&model.Account{ID: accountID, PasswordHash: storedHash}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Account")).Return(nil)
			},
		},
		{
			name:    "account no longer exists",
			current: "current-pass",
			newPass: "new-pass",
			confirm: "new-pass",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByID", mock.Anything, accountID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:    "wrong current password",
			current: "wrong",
			newPass: "new-pass",
			confirm: "new-pass",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByID", mock.Anything, accountID).Return(&model.Account{ID: accountID, PasswordHash: storedHash}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "confirmation mismatch leaves the hash unchanged",
			current: "current-pass",
			newPass: "new-pass",
			confirm: "different",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByID", mock.Anything, accountID).Return(&model.Account{ID: accountID, PasswordHash: storedHash}, nil)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestJWTService())
			err := service.ChangePassword(context.Background(), accountID, tt.current, tt.newPass, tt.confirm)

			if tt.wantStatus != 0 {
				assertStatus(t, err, tt.wantStatus)
				// Update must never run on a failed change.
				mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
