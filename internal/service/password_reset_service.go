package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// Password reset errors.
var (
	ErrInvalidChallenge  = errors.New("invalid otp")
	ErrChallengeExpired  = errors.New("otp expired")
	ErrOTPDeliveryFailed = errors.New("otp delivery failed")
)

// OTPNotifier delivers a reset code to the account owner.
type OTPNotifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// ChallengeStore reads accounts and writes only the reset related columns,
// so a reset never overwrites fields changed concurrently elsewhere.
type ChallengeStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetChallenge(ctx context.Context, id uuid.UUID, c *model.OtpChallenge) error
	CompletePasswordReset(ctx context.Context, id uuid.UUID, code, passwordHash string) error
}

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random 6-digit code, zero padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// PasswordResetService runs the emailed-code password reset flow.
type PasswordResetService struct {
	accounts      ChallengeStore
	hasher        CredentialHasher
	notifier      OTPNotifier
	ttl           time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
	generateCode  func() (string, error)
	log           zerolog.Logger
}

// ResetOption customises a PasswordResetService.
type ResetOption func(*PasswordResetService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ResetOption {
	return func(s *PasswordResetService) { s.now = now }
}

// WithCodeGenerator overrides how codes are generated.
func WithCodeGenerator(gen func() (string, error)) ResetOption {
	return func(s *PasswordResetService) { s.generateCode = gen }
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	cfg *config.Config,
	accounts ChallengeStore,
	hasher CredentialHasher,
	notifier OTPNotifier,
	log zerolog.Logger,
	opts ...ResetOption,
) *PasswordResetService {
	s := &PasswordResetService{
		accounts:      accounts,
		hasher:        hasher,
		notifier:      notifier,
		ttl:           cfg.OTPTTL,
		notifyTimeout: cfg.NotifierTimeout,
		now:           time.Now,
		generateCode:  GenerateOTP,
		log:           log.With().Str("component", "password_reset").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestReset issues a new code for the account, replacing any earlier
// one, and hands it to the notifier. The stored challenge is kept even when
// delivery fails; the caller gets ErrOTPDeliveryFailed and may retry.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	u, err := s.load(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	u.IssueChallenge(model.NewOtpChallenge(code, s.now(), s.ttl))
	if err := s.accounts.SetChallenge(ctx, u.ID, u.ResetChallenge); err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.SendOTP(sendCtx, u.Email, code); err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID.String()).Msg("OTP delivery failed")
		return fmt.Errorf("%w: %w", ErrOTPDeliveryFailed, err)
	}

	s.log.Info().Str("user_id", u.ID.String()).Msg("Password reset OTP issued")
	return nil
}

// VerifyChallenge checks a code without consuming it.
func (s *PasswordResetService) VerifyChallenge(ctx context.Context, email, code string) error {
	_, err := s.checkChallenge(ctx, email, code)
	return err
}

// ResetPassword consumes a valid code and stores the new password hash.
// The code cannot be used again afterwards.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.checkChallenge(ctx, email, code)
	if err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Conditional on the code, so two racing resets cannot both succeed.
	if err := s.accounts.CompletePasswordReset(ctx, u.ID, code, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidChallenge
		}
		return fmt.Errorf("save password: %w", err)
	}
	u.PasswordHash = hash
	u.ConsumeChallenge()

	s.log.Info().Str("user_id", u.ID.String()).Msg("Password reset via OTP")
	return nil
}

func (s *PasswordResetService) checkChallenge(ctx context.Context, email, code string) (*model.User, error) {
	u, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	c := u.ResetChallenge
	if !c.Matches(code) {
		return nil, ErrInvalidChallenge
	}
	if c.ExpiredAt(s.now()) {
		return nil, ErrChallengeExpired
	}
	return u, nil
}

func (s *PasswordResetService) load(ctx context.Context, email string) (*model.User, error) {
	u, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return u, nil
}
