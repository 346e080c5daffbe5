package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"capitals-quiz/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// PinLength is the number of digits in a username PIN.
const PinLength = 4

// PinStore persists one PIN hash per username. GetPinHash returns "" when the
// username has no PIN.
type PinStore interface {
	GetPinHash(ctx context.Context, username string) (string, error)
	SetPinHash(ctx context.Context, username, hash string) error
}

// PinGuard protects usernames with a 4-digit PIN hashed by bcrypt.
type PinGuard struct {
	store PinStore
	cost  int
	log   zerolog.Logger
}

// PinOption configures a PinGuard.
type PinOption func(*PinGuard)

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) PinOption {
	return func(g *PinGuard) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			g.cost = cost
		}
	}
}

// WithPinLogger attaches a logger.
func WithPinLogger(log zerolog.Logger) PinOption {
	return func(g *PinGuard) {
		g.log = log
	}
}

func NewPinGuard(store PinStore, opts ...PinOption) *PinGuard {
	g := &PinGuard{
		store: store,
		cost:  bcrypt.DefaultCost,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasPin reports whether username is PIN-protected.
func (g *PinGuard) HasPin(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.ErrEmptyUsername
	}
	hash, err := g.store.GetPinHash(ctx, username)
	if err != nil {
		return false, fmt.Errorf("get pin hash: %w", err)
	}
	return hash != "", nil
}

// SetPin protects an unprotected username. Use ChangePin once a PIN exists.
func (g *PinGuard) SetPin(ctx context.Context, username, pin string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ErrEmptyUsername
	}
	if err := ValidatePin(pin); err != nil {
		return err
	}
	has, err := g.HasPin(ctx, username)
	if err != nil {
		return err
	}
	if has {
		return domain.ErrPinAlreadySet
	}
	return g.write(ctx, username, pin)
}

// ChangePin replaces the PIN after the current one verifies.
func (g *PinGuard) ChangePin(ctx context.Context, username, oldPin, newPin string) error {
	if err := ValidatePin(newPin); err != nil {
		return err
	}
	ok, err := g.VerifyPin(ctx, username, oldPin)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPinMismatch
	}
	return g.write(ctx, strings.TrimSpace(username), newPin)
}

// VerifyPin checks pin against the stored hash. A username without a PIN
// never verifies.
func (g *PinGuard) VerifyPin(ctx context.Context, username, pin string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.ErrEmptyUsername
	}
	hash, err := g.store.GetPinHash(ctx, username)
	if err != nil {
		return false, fmt.Errorf("get pin hash: %w", err)
	}
	if hash == "" {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), pinSecret(username, pin))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		g.log.Debug().Str("username", username).Msg("pin mismatch")
		return false, nil
	default:
		return false, fmt.Errorf("compare pin: %w", err)
	}
}

func (g *PinGuard) write(ctx context.Context, username, pin string) error {
	hash, err := bcrypt.GenerateFromPassword(pinSecret(username, pin), g.cost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err := g.store.SetPinHash(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("set pin hash: %w", err)
	}
	g.log.Info().Str("username", username).Msg("pin stored")
	return nil
}

// ValidatePin accepts exactly four ASCII digits.
func ValidatePin(pin string) error {
	if len(pin) != PinLength {
		return domain.ErrInvalidPin
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return domain.ErrInvalidPin
		}
	}
	return nil
}

// pinSecret binds the PIN to its username so equal PINs never share a secret.
func pinSecret(username, pin string) []byte {
	return []byte(username + ":" + pin)
}
