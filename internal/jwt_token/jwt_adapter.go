package jwttoken

import (
	authmw "memberportal/pkg/platform/middleware/auth"
)

// JWTServiceAdapter lets the auth middleware validate portal access tokens
// without importing this package.
type JWTServiceAdapter struct {
	service *JWTService
}

var _ authmw.JWTValidator = (*JWTServiceAdapter)(nil)

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

// ValidateToken narrows the full claim set to the session identity the
// middleware puts on the request context.
func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		JTI:       claims.ID,
	}, nil
}
