package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsdist/commerce/internal/catalog"
)

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", SKU: "SHOE-1", Name: "Trail Runner", PriceCents: 1000, ImageDefault: "shoe.jpg"},
		{ID: "p2", SKU: "BALL-1", Name: "Match Ball", PriceCents: 2550, ImageDefault: "ball.jpg"},
	}
}

func doJSON(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

type cartListResp struct {
	Success   bool `json:"success"`
	CartItems []struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Quantity int32           `json:"quantity"`
		Image    string          `json:"image"`
	} `json:"cartItems"`
	Total decimal.Decimal `json:"total"`
}

func listCart(t *testing.T, env *testEnv, token string) cartListResp {
	t.Helper()
	rec := doJSON(t, env, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp cartListResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCartScenario(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	// add p1 (10.00) x2 -> total 20.00
	rec := doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := listCart(t, env, token)
	require.Len(t, resp.CartItems, 1)
	assert.Equal(t, "Trail Runner", resp.CartItems[0].Name)
	assert.Equal(t, int32(2), resp.CartItems[0].Quantity)
	assert.Equal(t, "20.00", resp.Total.StringFixed(2))

	// add p1 x3 again -> merged into one line, qty 5, total 50.00
	rec = doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p1", "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	resp = listCart(t, env, token)
	require.Len(t, resp.CartItems, 1, "adds for the same product must merge")
	assert.Equal(t, int32(5), resp.CartItems[0].Quantity)
	assert.Equal(t, "50.00", resp.Total.StringFixed(2))

	// remove the line -> empty cart, total 0.00
	rec = doJSON(t, env, http.MethodDelete, "/cart/items/"+resp.CartItems[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp = listCart(t, env, token)
	assert.Empty(t, resp.CartItems)
	assert.Equal(t, "0.00", resp.Total.StringFixed(2))
}

func TestCartTotalAcrossProducts(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p1", "quantity": 2})
	doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p2", "quantity": 1})

	resp := listCart(t, env, token)
	require.Len(t, resp.CartItems, 2)
	// 2*10.00 + 1*25.50
	assert.Equal(t, "45.50", resp.Total.StringFixed(2))
}

func TestListCartUnauthenticated(t *testing.T) {
	env := newTestEnv(testProducts()...)

	rec := doJSON(t, env, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
}

func TestAddUnknownProduct(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	rec := doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "nope", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddInvalidQuantity(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	for _, qty := range []int{0, -3} {
		rec := doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p1", "quantity": qty})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity %d", qty)
	}
}

func TestUpdateQuantity(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	doJSON(t, env, http.MethodPost, "/cart/add", token, map[string]any{"productId": "p1", "quantity": 2})
	lineID := listCart(t, env, token).CartItems[0].ID

	// set, not increment
	rec := doJSON(t, env, http.MethodPut, "/cart/items/"+lineID, token, map[string]any{"quantity": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(7), listCart(t, env, token).CartItems[0].Quantity)

	// below 1 is rejected; remove is the way to drop a line
	rec = doJSON(t, env, http.MethodPut, "/cart/items/"+lineID, token, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(7), listCart(t, env, token).CartItems[0].Quantity)
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv(testProducts()...)
	tokenA := env.login("cust-a")
	tokenB := env.login("cust-b")

	doJSON(t, env, http.MethodPost, "/cart/add", tokenB, map[string]any{"productId": "p1", "quantity": 2})
	lineB := listCart(t, env, tokenB).CartItems[0].ID

	// customer A cannot touch B's line
	rec := doJSON(t, env, http.MethodPut, fmt.Sprintf("/cart/items/%s", lineB), tokenA, map[string]any{"quantity": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// removing it as A is a no-op on B's cart
	rec = doJSON(t, env, http.MethodDelete, fmt.Sprintf("/cart/items/%s", lineB), tokenA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	respB := listCart(t, env, tokenB)
	require.Len(t, respB.CartItems, 1, "B's line must be unchanged")
	assert.Equal(t, int32(2), respB.CartItems[0].Quantity)
}

func TestRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(testProducts()...)
	token := env.login("cust-1")

	rec := doJSON(t, env, http.MethodDelete, "/cart/items/never-existed", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}
