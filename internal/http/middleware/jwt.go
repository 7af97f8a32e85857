package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

const (
	tokenTypeAdmin  = "admin"
	tokenTypePlayer = "player"
)

var errInvalidToken = errors.New("invalid token")

// GenerateAdminJWT signs a token for an administrator of customerID.
func GenerateAdminJWT(userID, customerID int, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"customer": customerID,
		"typ":      tokenTypeAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GeneratePlayerJWT signs a device token carrying the full player context.
func GeneratePlayerJWT(p model.PlayerContext, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      p.PlayerID,
		"site":     p.SiteID,
		"customer": p.CustomerID,
		"typ":      tokenTypePlayer,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// parseToken verifies the signature and expiry and checks the token type.
func parseToken(tokenString, secret, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	// exp is required.
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, errInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, errInvalidToken
	}
	return claims, nil
}

// intClaim reads a positive numeric claim; JSON numbers decode as float64.
func intClaim(claims jwt.MapClaims, key string) (int, bool) {
	v, ok := claims[key].(float64)
	if !ok || v <= 0 {
		return 0, false
	}
	return int(v), true
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth header", "code": "unauthorized"})
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth header", "code": "unauthorized"})
		return "", false
	}
	return parts[1], true
}

// AdminJWTMiddleware checks "Authorization: Bearer <token>" for an admin token and sets "currentAdmin".
func AdminJWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := parseToken(raw, secret, tokenTypeAdmin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "unauthorized"})
			return
		}
		userID, okUser := intClaim(claims, "sub")
		customerID, okCustomer := intClaim(claims, "customer")
		if !okUser || !okCustomer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims", "code": "unauthorized"})
			return
		}
		c.Set(currentAdminKey, &model.Admin{UserID: userID, CustomerID: customerID})
		c.Next()
	}
}

// PlayerJWTMiddleware checks the bearer token of a player device and sets "currentPlayer".
func PlayerJWTMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := parseToken(raw, secret, tokenTypePlayer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "unauthorized"})
			return
		}
		playerID, okPlayer := intClaim(claims, "sub")
		siteID, okSite := intClaim(claims, "site")
		customerID, okCustomer := intClaim(claims, "customer")
		if !okPlayer || !okSite || !okCustomer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims", "code": "unauthorized"})
			return
		}
		c.Set(currentPlayerKey, &model.PlayerContext{PlayerID: playerID, SiteID: siteID, CustomerID: customerID})
		c.Next()
	}
}
