package utils

import "github.com/gin-gonic/gin"

// All API responses share the {success: bool, ...} envelope; failures carry
// a message instead of a payload.

// OK writes a 200 success envelope with the payload fields at the top level.
func OK(ctx *gin.Context, payload gin.H) {
	respond(ctx, 200, payload)
}

// Created writes a 201 success envelope.
func Created(ctx *gin.Context, payload gin.H) {
	respond(ctx, 201, payload)
}

// Fail writes a failure envelope with the given HTTP status.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "message": message})
}

func respond(ctx *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	ctx.JSON(status, body)
}
