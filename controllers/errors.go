package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
)

// writeError translates a pipeline error into the response contract.
// Diagnostics captured as goerr variables ride along (attempted label,
// upstream status and body); credentials never appear in them.
func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	values := goerr.Values(err)
	if label, ok := values["label"].(string); ok {
		body["label"] = label
	}
	if status, ok := values["status"].(int); ok {
		body["upstreamStatus"] = status
	}
	if upstream, ok := values["body"].(string); ok {
		body["upstreamBody"] = upstream
	}

	c.JSON(apperr.HTTPStatus(err), body)
}
