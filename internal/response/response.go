// Package response implements the API's {code, msg, data} envelope.
// The business code mirrors the HTTP status so mobile clients can branch
// on a single field.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// JSON writes an envelope with the given HTTP status as both transport
// and business code.
func JSON(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, Envelope{Code: status, Msg: msg, Data: data})
}

// OK writes a 200 envelope.
func OK(c *gin.Context, msg string, data interface{}) {
	JSON(c, http.StatusOK, msg, data)
}

// Created writes a 201 envelope.
func Created(c *gin.Context, msg string, data interface{}) {
	JSON(c, http.StatusCreated, msg, data)
}
