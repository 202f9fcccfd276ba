package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetops/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

// 服务端错误同时体现在HTTP状态码上，不能裹在200里
func TestServerErrorCarriesHTTPStatus(t *testing.T) {
	w := record(func(c *gin.Context) { ServerError(c, "服务器内部错误") })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":500`)
}

func TestAuthErrorsCarryHTTPStatus(t *testing.T) {
	w := record(func(c *gin.Context) { Error(c, errors.CodeTokenInvalid, "令牌无效") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = record(func(c *gin.Context) { Error(c, errors.CodeCompanyDisabled, "所属公司已停用") })
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = record(func(c *gin.Context) { NotFound(c, "资源不存在") })
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 业务参数错误维持200，沿用code字段区分
	w = record(func(c *gin.Context) { BadRequest(c, "参数错误") })
	assert.Equal(t, http.StatusOK, w.Code)
}
