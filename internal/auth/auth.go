package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Credential checking is a static lookup: the portal ships a fixed user table
// and derives the role from the username shape. Usernames shorter than ten
// characters are staff (admin); ten-plus-character roll numbers are students.
const adminUsernameMaxLen = 10

// Shipped demo accounts. Hashed at startup so Check always goes through
// bcrypt; swap in pre-hashed entries via SetCredentials for real deployments.
var defaultUsers = map[string]string{
	"Gnanesh":    "Gnanesh",
	"1277":       "1277",
	"4868":       "4868",
	"2300031699": "Gnanesh",
}

var credentials = map[string][]byte{}

func init() {
	for user, pass := range defaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		credentials[user] = hash
	}
}

// SetCredentials replaces the static table with bcrypt-hashed entries.
func SetCredentials(hashed map[string][]byte) {
	credentials = hashed
}

// Check validates a username/password pair and returns the derived role.
func Check(username, password string) (role string, ok bool) {
	hash, exists := credentials[username]
	if !exists {
		return "", false
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return "", false
	}
	return RoleFor(username), true
}

// RoleFor derives the role from the username shape.
func RoleFor(username string) string {
	if len(username) < adminUsernameMaxLen {
		return "admin"
	}
	return "student"
}

type Service struct{ hmac []byte }

func NewService(secret string) *Service { return &Service{hmac: []byte(secret)} }

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "admin" or "student"
	jwt.RegisteredClaims
}

func (a *Service) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "klexam-portal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}
