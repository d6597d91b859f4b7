package cartControllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/shopcore/storefront-api/cart"
	cartControllers "github.com/shopcore/storefront-api/controllers/cart"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/middleware"
	"github.com/shopcore/storefront-api/testutil"
)

const testSecret = "test-secret"

func newRouter(t *testing.T) (*gin.Engine, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	guard := inventory.NewGuard(db)
	store := cart.NewStore(db, guard, zap.NewNop())
	productID := testutil.SeedProduct(t, db, "widget", 9.99, 10, true)

	r := gin.New()
	group := r.Group("/cart")
	group.Use(middleware.ResolveOwner(testSecret))
	group.GET("", cartControllers.GetCart(store))
	group.POST("/items", cartControllers.AddItem(store))
	group.DELETE("/items/:product_id", cartControllers.RemoveItem(store))
	r.POST("/cart/merge",
		middleware.RequireUser(testSecret),
		cartControllers.MergeCart(store))
	return r, productID
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string, header map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not enveloped JSON: %v\nbody: %s", err, w.Body.String())
	}
	return w.Code, env
}

func userToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestCartEndpoints_GuestSessionHeader(t *testing.T) {
	r, productID := newRouter(t)
	guest := map[string]string{"X-Guest-Session": "guest_abc"}

	code, env := doRequest(t, r, http.MethodGet, "/cart", "", guest)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("GET /cart: status %d, env %+v", code, env)
	}

	body := `{"product_id": ` + uintString(productID) + `, "quantity": 2}`
	code, env = doRequest(t, r, http.MethodPost, "/cart/items", body, guest)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("POST /cart/items: status %d, env %+v", code, env)
	}

	var view struct {
		ItemCount int `json:"item_count"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ItemCount != 2 {
		t.Fatalf("expected item_count 2, got %d", view.ItemCount)
	}
}

func TestCartEndpoints_ErrorEnvelope(t *testing.T) {
	r, _ := newRouter(t)
	guest := map[string]string{"X-Guest-Session": "guest_abc"}

	// Unknown product surfaces the coded error in the envelope.
	code, env := doRequest(t, r, http.MethodPost, "/cart/items",
		`{"product_id": 9999, "quantity": 1}`, guest)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if env.Success || env.Error == nil || env.Error.Code != "PRODUCT_NOT_FOUND" {
		t.Fatalf("expected PRODUCT_NOT_FOUND envelope, got %+v", env)
	}

	// Removing something never added is ITEM_NOT_FOUND.
	code, env = doRequest(t, r, http.MethodDelete, "/cart/items/5", "", guest)
	if code != http.StatusNotFound || env.Error == nil || env.Error.Code != "ITEM_NOT_FOUND" {
		t.Fatalf("expected ITEM_NOT_FOUND, got %d %+v", code, env)
	}
}

func TestCartEndpoints_NoCredentials(t *testing.T) {
	r, _ := newRouter(t)

	code, env := doRequest(t, r, http.MethodGet, "/cart", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %+v", env)
	}
}

func TestMergeEndpoint(t *testing.T) {
	r, productID := newRouter(t)
	guest := map[string]string{"X-Guest-Session": "guest_merge"}

	body := `{"product_id": ` + uintString(productID) + `, "quantity": 3}`
	if code, _ := doRequest(t, r, http.MethodPost, "/cart/items", body, guest); code != http.StatusCreated {
		t.Fatalf("seed guest cart failed: %d", code)
	}

	// Guests cannot merge.
	guestToken := map[string]string{"Authorization": "Bearer " + userToken(t, "guest_merge", "guest")}
	code, _ := doRequest(t, r, http.MethodPost, "/cart/merge",
		`{"guest_session_id": "guest_merge"}`, guestToken)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 for guest token, got %d", code)
	}

	auth := map[string]string{"Authorization": "Bearer " + userToken(t, "user-9", "user")}
	code, env := doRequest(t, r, http.MethodPost, "/cart/merge",
		`{"guest_session_id": "guest_merge"}`, auth)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("merge failed: %d %+v", code, env)
	}

	var view struct {
		ItemCount int `json:"item_count"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.ItemCount != 3 {
		t.Fatalf("expected merged item_count 3, got %d", view.ItemCount)
	}
}

func uintString(v uint) string {
	data, _ := json.Marshal(v)
	return string(data)
}
