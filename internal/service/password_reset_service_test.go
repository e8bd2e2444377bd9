package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
)

type resetFixture struct {
	svc      *PasswordResetService
	accounts *memAccounts
	notifier *recordingNotifier
	user     model.User
	now      time.Time
}

func (f *resetFixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func newResetFixture(t *testing.T, opts ...ResetOption) *resetFixture {
	t.Helper()
	f := &resetFixture{
		user: model.User{
			ID:           uuid.New(),
			Name:         "Ada",
			Email:        "a@b.com",
			PasswordHash: "hashed:oldpass123",
			Role:         model.RoleStudent,
		},
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}
	f.accounts = newMemAccounts(f.user)
	cfg := &config.Config{OTPTTL: 10 * time.Minute, NotifierTimeout: time.Second}
	opts = append([]ResetOption{WithClock(func() time.Time { return f.now })}, opts...)
	f.svc = NewPasswordResetService(cfg, f.accounts, plainHasher{}, f.notifier, zerolog.Nop(), opts...)
	return f
}

func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	six := regexp.MustCompile(`^[0-9]{6}$`)
	for range 500 {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, six, code)
	}
}

func TestPasswordResetScenario(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))
	code := f.notifier.last()
	require.Len(t, code, 6)

	stored := f.accounts.stored(f.user.ID)
	require.NotNil(t, stored.ResetChallenge)
	assert.Equal(t, code, stored.ResetChallenge.Code)
	assert.Equal(t, f.now.Add(600*time.Second), stored.ResetChallenge.ExpiresAt)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "a@b.com", wrong), ErrInvalidChallenge)

	require.NoError(t, f.svc.VerifyChallenge(ctx, "a@b.com", code))
	assert.NotNil(t, f.accounts.stored(f.user.ID).ResetChallenge, "verify must not consume the code")

	require.NoError(t, f.svc.ResetPassword(ctx, "a@b.com", code, "newpass123"))
	after := f.accounts.stored(f.user.ID)
	assert.Equal(t, "hashed:newpass123", after.PasswordHash)
	assert.NotEqual(t, f.user.PasswordHash, after.PasswordHash)
	assert.Nil(t, after.ResetChallenge)
}

func TestRequestResetUnknownAccount(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.RequestReset(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Empty(t, f.notifier.codes)
}

func TestEmailLookupIsCaseInsensitive(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("123456")))
	require.NoError(t, f.svc.RequestReset(context.Background(), "  A@B.com "))
	assert.NoError(t, f.svc.VerifyChallenge(context.Background(), "a@b.COM", "123456"))
}

func TestChallengeExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"at 9:59", 9*time.Minute + 59*time.Second, nil},
		{"one nanosecond before expiry", 10*time.Minute - time.Nanosecond, nil},
		{"exactly at expiry", 10 * time.Minute, ErrChallengeExpired},
		{"at 10:01", 10*time.Minute + time.Second, ErrChallengeExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResetFixture(t, WithCodeGenerator(sequence("424242")))
			ctx := context.Background()
			require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))

			f.advance(tt.elapsed)
			err := f.svc.VerifyChallenge(ctx, "a@b.com", "424242")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestExpiredCodeCannotReset(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("424242")))
	ctx := context.Background()
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))
	f.advance(11 * time.Minute)

	err := f.svc.ResetPassword(ctx, "a@b.com", "424242", "newpass123")
	assert.ErrorIs(t, err, ErrChallengeExpired)
	assert.Equal(t, f.user.PasswordHash, f.accounts.stored(f.user.ID).PasswordHash)
}

func TestConsumedCodeIsInvalid(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("555555")))
	ctx := context.Background()
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))
	require.NoError(t, f.svc.ResetPassword(ctx, "a@b.com", "555555", "newpass123"))

	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "a@b.com", "555555"), ErrInvalidChallenge)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "a@b.com", "555555", "other12345"), ErrInvalidChallenge)
	assert.Equal(t, "hashed:newpass123", f.accounts.stored(f.user.ID).PasswordHash)
}

func TestSecondRequestInvalidatesFirstCode(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("111111", "222222")))
	ctx := context.Background()
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))
	f.advance(time.Minute)
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))

	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "a@b.com", "111111"), ErrInvalidChallenge)
	assert.NoError(t, f.svc.VerifyChallenge(ctx, "a@b.com", "222222"))

	// The replacement restarts the expiry window.
	f.advance(9*time.Minute + 30*time.Second)
	assert.NoError(t, f.svc.VerifyChallenge(ctx, "a@b.com", "222222"))
}

func TestNoChallengeIsInvalid(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()
	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "a@b.com", ""), ErrInvalidChallenge)
	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "a@b.com", "123456"), ErrInvalidChallenge)
	assert.ErrorIs(t, f.svc.VerifyChallenge(ctx, "x@b.com", "123456"), ErrAccountNotFound)
}

func TestDeliveryFailureKeepsChallenge(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("777777")))
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	err := f.svc.RequestReset(ctx, "a@b.com")
	require.ErrorIs(t, err, ErrOTPDeliveryFailed)
	assert.Contains(t, err.Error(), "smtp down")

	stored := f.accounts.stored(f.user.ID)
	require.NotNil(t, stored.ResetChallenge)
	assert.Equal(t, "777777", stored.ResetChallenge.Code)
}

func TestRequestResetNeverLeaksCodeInError(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("987654")))
	f.notifier.err = errors.New("timeout")
	err := f.svc.RequestReset(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "987654")
}

func TestResetWritesLeaveConcurrentPasswordChange(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("313131")))
	ctx := context.Background()

	changed := false
	f.accounts.afterGet = func() {
		if !changed {
			changed = true
			f.accounts.setPassword(f.user.ID, "hashed:changed123")
		}
	}
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))

	stored := f.accounts.stored(f.user.ID)
	assert.Equal(t, "hashed:changed123", stored.PasswordHash)
	require.NotNil(t, stored.ResetChallenge)
	assert.Equal(t, "313131", stored.ResetChallenge.Code)
}

func TestResetRejectsCodeReplacedAfterLoad(t *testing.T) {
	f := newResetFixture(t, WithCodeGenerator(sequence("111111", "222222")))
	ctx := context.Background()
	require.NoError(t, f.svc.RequestReset(ctx, "a@b.com"))

	replaced := false
	f.accounts.afterGet = func() {
		if !replaced {
			replaced = true
			require.NoError(t, f.accounts.SetChallenge(ctx, f.user.ID, &model.OtpChallenge{
				Code:      "222222",
				ExpiresAt: f.now.Add(10 * time.Minute),
			}))
		}
	}
	err := f.svc.ResetPassword(ctx, "a@b.com", "111111", "newpass123")
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	stored := f.accounts.stored(f.user.ID)
	assert.Equal(t, f.user.PasswordHash, stored.PasswordHash)
	require.NotNil(t, stored.ResetChallenge)
	assert.Equal(t, "222222", stored.ResetChallenge.Code)
}
