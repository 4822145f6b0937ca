package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mailer"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

const (
	otpDigits     = 6
	DefaultOTPTTL = 10 * time.Minute
)

// VerificationService issues and validates one-time email codes. Issuance and
// verification for a (user, email) pair serialize on a keyed lock so at most
// one active code exists at a time.
type VerificationService struct {
	Repo   *repo.GormRepo
	Mailer mailer.Sender
	TTL    time.Duration

	pairLocks keyedMutex
}

func (s *VerificationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultOTPTTL
}

// Issue generates a fresh code for the pair, invalidating any prior active
// one, and hands it to the mailer. The cleartext code is returned to the
// caller and never stored.
func (s *VerificationService) Issue(ctx context.Context, userID uint, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	} else if err != nil {
		return "", err
	}

	unlock := s.pairLocks.lock(fmt.Sprintf("otp/%d/%s", userID, email))
	defer unlock()

	code, err := genOTP(otpDigits)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	otp := models.EmailOTP{
		UserID:    user.ID,
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().UTC().Add(s.ttl()),
	}
	if err := s.Repo.ReplaceActiveOTP(ctx, &otp); err != nil {
		return "", err
	}

	if s.Mailer != nil {
		if err := s.Mailer.Send(email, "Your verification code",
			fmt.Sprintf("Your verification code is %s. It expires in %s.", code, s.ttl())); err != nil {
			return "", fmt.Errorf("send code: %w", err)
		}
	}
	return code, nil
}

// Verify consumes the latest code for the pair. Success marks the code used
// and flips the user to verified exactly once; every failure path leaves
// users.is_verified untouched, and an expired code stays unused so the expiry
// audit trail remains.
func (s *VerificationService) Verify(ctx context.Context, userID uint, email, code string) error {
	email = normalizeEmail(email)

	unlock := s.pairLocks.lock(fmt.Sprintf("otp/%d/%s", userID, email))
	defer unlock()

	otp, err := s.Repo.LatestOTP(ctx, userID, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeNotFound
	} else if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return ErrCodeNotFound
	}
	if otp.Used {
		return ErrCodeAlreadyUsed
	}
	if time.Now().UTC().After(otp.ExpiresAt) {
		return ErrCodeExpired
	}

	err = s.Repo.ConsumeOTP(ctx, otp.ID, userID, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeAlreadyUsed
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func genOTP(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
