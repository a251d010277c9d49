package graphql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"stockhub/internal/core/apperror"
)

// request is the standard GraphQL POST body.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes GraphQL documents against the inventory schema.
type Handler struct {
	schema graphql.Schema
}

// NewHandler creates a new GraphQL handler.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Execute handles POST /graphql
func (h *Handler) Execute(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewValidation("invalid graphql request").WithDetail("error", err.Error()))
		c.Abort()
		return
	}
	if req.Query == "" {
		_ = c.Error(apperror.NewValidation("query is required"))
		c.Abort()
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})

	c.JSON(http.StatusOK, result)
}
