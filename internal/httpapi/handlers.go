package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskboard/internal/account"
	"taskboard/internal/audit"
	"taskboard/internal/auth"
	"taskboard/pkg/logger"
	"taskboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Tokens   *auth.TokenService
	Accounts *account.Service
	// Audit is optional; failures are logged and never fail the request.
	Audit *audit.Service
	// Limiter throttles verification token issuance per username.
	Limiter IssueLimiter
	// DB backs /readyz.
	DB utils.Pinger
}

// --- Health ---

func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h Handlers) Ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := utils.HealthCheck(c.Request.Context(), h.DB, 2*time.Second); err != nil {
		logger.FromGin(c).Error("readiness check failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Tokens ---

type sessionRequest struct {
	UserID string `json:"user_id"`
}

// IssueSession issues a session token for an existing account.
//
// NOTE: credential checks belong in front of this endpoint; it only proves the account exists.
func (h Handlers) IssueSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	acct, err := h.Accounts.Lookup(c.Request.Context(), req.UserID)
	if err != nil {
		h.abortAccountError(c, err)
		return
	}

	tok, err := h.Tokens.IssueSessionToken(acct.UserID)
	if err != nil {
		h.abortTokenError(c, err)
		return
	}
	h.recordAudit(c, func(ctx context.Context, m audit.Meta) error {
		return h.Audit.LogSessionTokenIssued(ctx, acct.UserID, m)
	})

	c.JSON(http.StatusOK, gin.H{
		"token":         tok,
		"token_type":    "Bearer",
		"expires_in_ms": h.Tokens.Expiry().Milliseconds(),
	})
}

type verificationRequest struct {
	Username string `json:"username"`
}

// IssueVerification issues a short-lived email verification token.
// Delivery of the token (email) happens outside this service.
func (h Handlers) IssueVerification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	acct, err := h.Accounts.RequireUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.abortAccountError(c, err)
		return
	}

	if h.Limiter != nil {
		ok, err := h.Limiter.Allow(c.Request.Context(), acct.Username)
		if err != nil {
			logger.FromGin(c).Error("verification limiter failed", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "try_again_later"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
			return
		}
	}

	tok, err := h.Tokens.IssueVerificationToken(acct.Username)
	if err != nil {
		h.abortTokenError(c, err)
		return
	}
	h.recordAudit(c, func(ctx context.Context, m audit.Meta) error {
		return h.Audit.LogVerificationTokenIssued(ctx, acct.Username, m)
	})

	c.JSON(http.StatusOK, gin.H{
		"token":         tok,
		"expires_in_ms": auth.VerificationTokenTTL.Milliseconds(),
	})
}

type tokenRequest struct {
	Token string `json:"token"`
}

// VerifyEmail consumes a verification token and marks the account's email verified.
func (h Handlers) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username, err := h.Tokens.ExtractUsername(req.Token)
	if err != nil {
		h.abortTokenError(c, err)
		return
	}

	acct, err := h.Accounts.ConfirmEmail(c.Request.Context(), username)
	if err != nil {
		h.abortAccountError(c, err)
		return
	}
	h.recordAudit(c, func(ctx context.Context, m audit.Meta) error {
		return h.Audit.LogEmailVerified(ctx, acct.UserID, acct.Username, m)
	})

	c.JSON(http.StatusOK, gin.H{
		"username":          acct.Username,
		"email_verified":    true,
		"email_verified_at": acct.EmailVerifiedAt,
	})
}

// Introspect answers whether a token is currently valid, without the reason.
func (h Handlers) Introspect(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.Tokens.IsValid(req.Token)})
}

// --- Account ---

// Me returns the account of the session token subject.
// Requires auth.RequireSessionToken in the chain.
func (h Handlers) Me(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	acct, err := h.Accounts.Lookup(c.Request.Context(), userID)
	if err != nil {
		h.abortAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}

// --- helpers ---

func (h Handlers) abortTokenError(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, auth.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	logger.FromGin(c).Debug("token rejected", "err", err)
	c.AbortWithStatusJSON(status, gin.H{"error": auth.Code(err)})
}

func (h Handlers) abortAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "account_not_found"})
	case errors.Is(err, account.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_argument"})
	default:
		logger.FromGin(c).Error("account lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

func (h Handlers) recordAudit(c *gin.Context, fn func(ctx context.Context, m audit.Meta) error) {
	if h.Audit == nil {
		return
	}
	m := audit.Meta{IPAddress: c.ClientIP(), RequestID: logger.RequestID(c)}
	if err := fn(c.Request.Context(), m); err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}
