package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

func mappedErrorStatus(t *testing.T, err error, rules []mappedHandlerError) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders", nil)

	respondWithMappedError(c, err, rules, response.CodeInternal, "error.order_create_failed")

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestOrderCreateErrorMapping(t *testing.T) {
	// 并发扣减失败方必须拿到冲突码，客户端据此重试
	if got := mappedErrorStatus(t, service.ErrStockConflict, orderCreateErrorRules); got != response.CodeConflict {
		t.Fatalf("stock conflict status want %d got %d", response.CodeConflict, got)
	}
	if got := mappedErrorStatus(t, service.ErrCartEmpty, orderCreateErrorRules); got != response.CodeBadRequest {
		t.Fatalf("empty cart status want %d got %d", response.CodeBadRequest, got)
	}
	if got := mappedErrorStatus(t, service.ErrOrderNotFound, orderAccessErrorRules); got != response.CodeNotFound {
		t.Fatalf("order not found status want %d got %d", response.CodeNotFound, got)
	}
	if got := mappedErrorStatus(t, service.ErrOrderNotRelated, orderAccessErrorRules); got != response.CodeForbidden {
		t.Fatalf("order not related status want %d got %d", response.CodeForbidden, got)
	}
}
