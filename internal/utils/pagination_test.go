package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/board-api/internal/constants"
)

func paginationContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(""))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_Page(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=3&limit=20"))

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 40, params.Offset)
}

func TestGetPaginationParams_SkipOverridesPage(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=5&skip=15&limit=10"))

	assert.Equal(t, 15, params.Offset)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 2, params.Page)
}

func TestGetPaginationParams_InvalidValuesFallBack(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=-1&limit=100000&skip=-4"))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
	assert.Equal(t, 0, params.Offset)
}
