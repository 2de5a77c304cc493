package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid table token")

// TableClaims lets a reconnecting client prove it was seated at a table
type TableClaims struct {
	TableID string `json:"table_id"`
	jwt.RegisteredClaims
}

type TableTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTableTokens(secret string, ttl time.Duration) *TableTokens {
	return &TableTokens{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token bound to tableID
func (t *TableTokens) Issue(tableID string) (string, error) {
	now := time.Now()
	claims := &TableClaims{
		TableID: tableID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tableID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates tokenString and returns the table it was issued for
func (t *TableTokens) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TableClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TableClaims)
	if !ok || !token.Valid || claims.TableID == "" {
		return "", ErrInvalidToken
	}
	return claims.TableID, nil
}
