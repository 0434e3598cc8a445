package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errs "github.com/fireesports/ledger/internal/domain/error"
	coreport "github.com/fireesports/ledger/internal/domain/port/core"
)

// Roles carried in the role claim
const (
	RolePlayer    = "player"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Claims are issued by the identity service. The account id is the subject, or the
// account_id claim for tokens minted by older clients.
type Claims struct {
	AccountID string `json:"account_id,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Account returns the account the token was issued for
func (c *Claims) Account() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.AccountID
}

// Options configures token validation
type Options struct {
	Secret string
	Issuer string // checked when set
	Expiry time.Duration
}

// JWTService validates HS256 session tokens. GenerateToken exists for tooling and tests;
// the ledger itself never logs anyone in.
type JWTService struct {
	secret       []byte
	issuer       string
	expiry       time.Duration
	timeProvider coreport.TimeProvider
}

// NewJWTService creates a new JWTService instance
func NewJWTService(opts Options, timeProvider coreport.TimeProvider) *JWTService {
	expiry := opts.Expiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTService{
		secret:       []byte(opts.Secret),
		issuer:       opts.Issuer,
		expiry:       expiry,
		timeProvider: timeProvider,
	}
}

// GenerateToken signs a token for accountID with role
func (s *JWTService) GenerateToken(accountID, role string) (string, error) {
	now := s.timeProvider.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken parses tokenString and checks signature, expiry and issuer
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.timeProvider.Now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Account() == "" {
		return nil, fmt.Errorf("%w: token carries no account", errs.ErrUnauthorized)
	}
	if claims.Role == "" {
		claims.Role = RolePlayer
	}
	return claims, nil
}
