package main

import (
	"taskboard/internal/auth"
	"taskboard/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	// public
	r.GET("/healthz", h.Health)
	r.GET("/readyz", h.Ready)

	v1 := r.Group("/v1")

	// AUTH routes (token issuance and checks); no session required.
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/session", h.IssueSession)
		authGroup.POST("/verification", h.IssueVerification)
		authGroup.POST("/verify-email", h.VerifyEmail)
		authGroup.POST("/introspect", h.Introspect)
	}

	// protected routes
	protected := v1.Group("")
	protected.Use(auth.RequireSessionToken(h.Tokens))
	{
		protected.GET("/me", h.Me)
	}
}
