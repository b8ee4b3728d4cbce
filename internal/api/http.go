package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/compass/internal/errors"
)

const (
	ownerKey         = "owner"
	adminTokenHeader = "X-Admin-Token"
)

func (a *API) registerHTTP(e *gin.Engine) {
	v1 := e.Group("/v1", a.authenticate)
	v1.GET("/questions", a.handleQuestions)
	v1.POST("/results", a.handleSubmit)
	v1.GET("/results", a.handleList)
	v1.GET("/sessions/:session_id/result", a.handleFetch)

	if a.adminToken != "" {
		v1.POST("/admin/recompute", a.requireAdmin, a.handleRecompute)
	}
}

func (a *API) authenticate(c *gin.Context) {
	owner, err := a.auth.Owner(c.GetHeader("Authorization"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set(ownerKey, owner)
	c.Next()
}

func (a *API) requireAdmin(c *gin.Context) {
	if err := a.checkAdmin(c.GetHeader(adminTokenHeader)); err != nil {
		writeError(c, err)
		return
	}

	c.Next()
}

func (a *API) handleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, questions())
}

func (a *API) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Validation(err))
		return
	}

	resp, err := a.submit(c.Request.Context(), c.GetString(ownerKey), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a *API) handleFetch(c *gin.Context) {
	resp, err := a.fetch(c.Request.Context(), fetchRequest{
		SessionID: c.Param("session_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *API) handleList(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, errors.Validation(err))
		return
	}

	resp, err := a.list(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *API) handleRecompute(c *gin.Context) {
	resp, err := a.recompute(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error) {
	e := errors.Convert(err)
	if e.Code == errors.CodeInternal {
		slog.ErrorContext(c.Request.Context(), "api: request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.AbortWithStatusJSON(e.HTTPStatusCode(), e)
}
