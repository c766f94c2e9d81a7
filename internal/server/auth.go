package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gravitas-games/dotforge/internal/config"
	"github.com/gravitas-games/dotforge/pkg/models"
)

// Blacklist reports revoked users.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, userID string) (bool, error)
}

// RedisBlacklist looks users up under prefix+userID in Redis.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklist creates a blacklist backed by client.
func NewRedisBlacklist(client *redis.Client, prefix string) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: prefix}
}

// IsBlacklisted checks whether the user's blacklist key exists.
func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, userID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+userID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// JWTValidator handles JWT token validation
type JWTValidator struct {
	issuer    string
	keyURL    string
	publicKey *ecdsa.PublicKey
	keyMu     sync.RWMutex
	blacklist Blacklist
}

// Claims are the login server's token claims that crafting relies on.
// Other claims in the token are ignored.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Activated int64  `json:"activated"`
	jwt.RegisteredClaims
}

// NewJWTValidator fetches the login server's public key and refreshes it
// until ctx is cancelled.
func NewJWTValidator(ctx context.Context, cfg *config.Config, blacklist Blacklist) (*JWTValidator, error) {
	validator := &JWTValidator{
		issuer:    cfg.JWT.Issuer,
		keyURL:    cfg.JWT.PublicKeyURL,
		blacklist: blacklist,
	}

	if err := validator.RefreshPublicKey(); err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	refresh := time.Duration(cfg.JWT.PublicKeyRefreshHrs) * time.Hour
	go validator.periodicKeyRefresh(ctx, refresh)

	log.Println("JWT validator initialized")
	return validator, nil
}

// NewJWTValidatorWithKey creates a validator around a fixed public key.
func NewJWTValidatorWithKey(issuer string, key *ecdsa.PublicKey, blacklist Blacklist) *JWTValidator {
	return &JWTValidator{
		issuer:    issuer,
		publicKey: key,
		blacklist: blacklist,
	}
}

// RefreshPublicKey fetches the PEM public key from the login server
func (v *JWTValidator) RefreshPublicKey() error {
	log.Printf("Fetching public key from %s", v.keyURL)

	resp, err := http.Get(v.keyURL)
	if err != nil {
		return fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("public key endpoint returned status %d", resp.StatusCode)
	}

	keyData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}

	ecdsaKey, err := parseECDSAPublicKey(keyData)
	if err != nil {
		return err
	}

	v.keyMu.Lock()
	v.publicKey = ecdsaKey
	v.keyMu.Unlock()

	log.Println("Public key refreshed successfully")
	return nil
}

func parseECDSAPublicKey(keyData []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	ecdsaKey, ok := pubKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}
	return ecdsaKey, nil
}

// periodicKeyRefresh refreshes the public key until ctx is done
func (v *JWTValidator) periodicKeyRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := v.RefreshPublicKey(); err != nil {
				log.Printf("Failed to refresh public key: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// ValidateToken validates a JWT token and returns player information
func (v *JWTValidator) ValidateToken(ctx context.Context, tokenString string) (*models.Player, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		v.keyMu.RLock()
		defer v.keyMu.RUnlock()
		if v.publicKey == nil {
			return nil, errors.New("no public key loaded")
		}
		return v.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	// jwt/v5 rejects expired tokens while parsing; this also catches
	// tokens that expire between parse and here.
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	if claims.Activated == 0 {
		return nil, errors.New("user not activated")
	}
	if claims.Activated == -1 {
		return nil, errors.New("user is banned")
	}

	userID := strconv.FormatInt(claims.UserID, 10)
	if v.blacklist != nil {
		blacklisted, err := v.blacklist.IsBlacklisted(ctx, userID)
		if err != nil {
			// Don't fail authentication if Redis is down
			log.Printf("Warning: Failed to check blacklist: %v", err)
		} else if blacklisted {
			return nil, errors.New("token is blacklisted")
		}
	}

	return &models.Player{
		ID:        userID,
		Username:  claims.Username,
		Activated: claims.Activated,
	}, nil
}

// extractTokenFromHeader extracts the JWT from a WebSocket upgrade request.
// It tries Sec-WebSocket-Protocol ("access_token, <token>"), then a Bearer
// Authorization header, then the token query parameter.
func extractTokenFromHeader(r *http.Request) string {
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := parseProtocols(protocols)
		if len(parts) == 2 && parts[0] == "access_token" {
			return parts[1]
		}
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		return token
	}

	return r.URL.Query().Get("token")
}

// parseProtocols splits the Sec-WebSocket-Protocol header
func parseProtocols(protocols string) []string {
	var result []string
	for _, part := range strings.Split(protocols, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
