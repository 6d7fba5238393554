package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity is the caller carried in an access token.
type Identity struct {
	NIK        string
	Role       string
	Site       string
	Departemen string
}

type Service interface {
	GenerateAccessToken(identity Identity) (token string, expiresAt int64, err error)
	GenerateSSEToken(nik string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (nik string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken mints a token for tests and tooling. Production tokens are issued by the external auth service.
func (j *JWTService) GenerateAccessToken(identity Identity) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"nik":        identity.NIK,
		"role":       identity.Role,
		"site":       identity.Site,
		"departemen": identity.Departemen,
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(nik string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"nik":  nik,
		"type": "sse",
		"exp":  expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the NIK it was issued for
func (j *JWTService) ValidateSSEToken(tokenString string) (nik string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", jwt.ErrInvalidJWT()
	}

	nikVal, ok := token.Get("nik")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	nik, ok = nikVal.(string)
	if !ok || nik == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return nik, nil
}

// IdentityFromClaims reads an access token's claims back into an Identity.
func IdentityFromClaims(claims map[string]interface{}) (Identity, error) {
	if t, _ := claims["type"].(string); t != "access" {
		return Identity{}, fmt.Errorf("unexpected token type %q", t)
	}
	id := Identity{}
	id.NIK, _ = claims["nik"].(string)
	id.Role, _ = claims["role"].(string)
	id.Site, _ = claims["site"].(string)
	id.Departemen, _ = claims["departemen"].(string)
	if id.NIK == "" || id.Role == "" {
		return Identity{}, fmt.Errorf("token is missing nik or role")
	}
	return id, nil
}
