package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/cart/internal/interfaces/http/dto"
)

func bindRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/cart/items", func(c *gin.Context) {
		var req dto.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	t.Run("lists violated fields by json name", func(t *testing.T) {
		w := httptest.NewRecorder()
		bindRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"quantity": -2}`)))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["productRef"])
		assert.Equal(t, "Must be at least 1", fields["quantity"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		bindRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productRef":`)))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("valid request", func(t *testing.T) {
		w := httptest.NewRecorder()
		bindRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"productRef":"v1","price":"12.50"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
