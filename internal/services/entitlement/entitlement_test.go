package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qiyoga/qiyoga-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GrantAccess(ctx context.Context, email, userID string, grantedAt, expiresAt time.Time) error {
	args := m.Called(ctx, email, userID, grantedAt, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) ExpireAccess(ctx context.Context, email string, now time.Time) error {
	args := m.Called(ctx, email, now)
	return args.Error(0)
}

func (m *MockRepository) UpsertAccessLog(ctx context.Context, entry models.AccessGrantLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_HasAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	granted := now.Add(-10 * 24 * time.Hour)
	validUntil := granted.Add(models.AccessWindow)
	expired := now.Add(-time.Hour)

	tests := []struct {
		name       string
		email      string
		setupMocks func(*MockRepository)
		want       bool
		wantErr    bool
	}{
		{
			name:  "запись отсутствует",
			email: "nobody@example.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil).Once()
			},
			want: false,
		},
		{
			name:  "доступ действует",
			email: "a@b.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(&models.User{
					Email:           "a@b.com",
					HasAccess:       true,
					AccessGrantedAt: &granted,
					AccessExpiresAt: &validUntil,
				}, nil).Once()
			},
			want: true,
		},
		{
			name:  "флаг сброшен",
			email: "a@b.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(&models.User{
					Email:           "a@b.com",
					HasAccess:       false,
					AccessGrantedAt: &granted,
					AccessExpiresAt: &validUntil,
				}, nil).Once()
			},
			want: false,
		},
		{
			name:  "дата выдачи не установлена",
			email: "a@b.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(&models.User{
					Email:     "a@b.com",
					HasAccess: true,
				}, nil).Once()
			},
			want: false,
		},
		{
			name:  "срок истёк, флаг сбрасывается при чтении",
			email: "a@b.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(&models.User{
					Email:           "a@b.com",
					HasAccess:       true,
					AccessGrantedAt: &granted,
					AccessExpiresAt: &expired,
				}, nil).Once()
				r.On("ExpireAccess", mock.Anything, "a@b.com", mock.Anything).Return(nil).Once()
			},
			want: false,
		},
		{
			name:  "ошибка хранилища",
			email: "a@b.com",
			setupMocks: func(r *MockRepository) {
				r.On("GetUserByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMocks(repo)

			svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
			got, err := svc.HasAccess(context.Background(), tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GrantAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wantExpires := now.Add(models.AccessWindow)

	t.Run("выдача с user_id", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GrantAccess", mock.Anything, "a@b.com", "user-1", now, wantExpires).Return(nil).Once()
		repo.On("UpsertAccessLog", mock.Anything, models.AccessGrantLogEntry{
			UserID:        "user-1",
			CustomerEmail: "a@b.com",
			GrantedAt:     now,
		}).Return(nil).Once()

		svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
		event, err := svc.GrantAccess(context.Background(), "a@b.com", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, wantExpires, event.ExpiresAt)
		repo.AssertExpectations(t)
	})

	t.Run("пустой user_id заменяется на guest", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GrantAccess", mock.Anything, "a@b.com", GuestUserID, now, wantExpires).Return(nil).Once()
		repo.On("UpsertAccessLog", mock.Anything, mock.Anything).Return(nil).Once()

		svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
		event, err := svc.GrantAccess(context.Background(), "a@b.com", "")
		require.NoError(t, err)
		assert.Equal(t, GuestUserID, event.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("ошибка хранилища при выдаче", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GrantAccess", mock.Anything, "a@b.com", "user-1", now, wantExpires).
			Return(errors.New("db error")).Once()

		svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
		_, err := svc.GrantAccess(context.Background(), "a@b.com", "user-1")
		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_AccessInfo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	granted := now.Add(-5 * 24 * time.Hour)
	validUntil := granted.Add(models.AccessWindow)

	t.Run("активный доступ с остатком дней", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, "a@b.com").Return(&models.User{
			Email:           "a@b.com",
			HasAccess:       true,
			AccessGrantedAt: &granted,
			AccessExpiresAt: &validUntil,
		}, nil).Twice()

		svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
		info, err := svc.AccessInfo(context.Background(), "a@b.com")
		require.NoError(t, err)
		assert.True(t, info.HasAccess)
		assert.Equal(t, 25, info.DaysRemaining)
		repo.AssertExpectations(t)
	})

	t.Run("доступа нет", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, "x@y.com").Return(nil, nil).Once()

		svc := NewWithClock(repo, newNoopLogger(), func() time.Time { return now })
		info, err := svc.AccessInfo(context.Background(), "x@y.com")
		require.NoError(t, err)
		assert.False(t, info.HasAccess)
		assert.Nil(t, info.ExpiresAt)
		repo.AssertExpectations(t)
	})
}
