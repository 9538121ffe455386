package middlewares

import (
	"errors"
	"net/http"
	"salonbook/src/config"
	"salonbook/src/types"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const ClaimsKey = "claims"

func bearerToken(ctx *gin.Context) string {
	header := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware accepts HS256 bearer tokens signed with JWT_SECRET.
func AuthMiddleware(ctx *gin.Context) {
	reqToken := bearerToken(ctx)
	if reqToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.JWT_SECRET), nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			zap.S().Infof("token error: %s", err.Error())
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx.Set("email", claims.Email)
	ctx.Set("role", claims.Role)
	ctx.Set(ClaimsKey, claims)
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(ctx *gin.Context) {
	v, ok := ctx.Get(ClaimsKey)
	claims, _ := v.(*types.Claims)
	if !ok || claims == nil || !claims.IsAdmin() {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
}
