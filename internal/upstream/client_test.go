package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"posterminal/internal/domain"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, logDiscard()), srv
}

func session() *domain.Session {
	return &domain.Session{Token: "tok", UserID: 7, Username: "caissier"}
}

func TestLogin_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["username"] != "caissier" || body["password"] != "secret" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"user":         map[string]interface{}{"id": 7, "username": "caissier"},
		})
	}))

	sess, err := client.Login(context.Background(), "caissier", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-123" || sess.UserID != 7 || sess.Username != "caissier" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestLogin_Rejected(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	}))

	_, err := client.Login(context.Background(), "caissier", "wrong")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestCall_MissingTokenPreemptsNetwork(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	_, err := client.FetchProducts(context.Background(), &domain.Session{})
	if !errors.Is(err, domain.ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
	if called {
		t.Fatalf("request was issued without a token")
	}
}

func TestCall_AuthRejectionMapped(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := client.FetchProducts(context.Background(), session())
		if !errors.Is(err, domain.ErrAuthFailed) {
			t.Fatalf("status %d: expected ErrAuthFailed, got %v", status, err)
		}
	}
}

func TestFetchProducts_ResponseShapes(t *testing.T) {
	product := map[string]interface{}{
		"id":  1,
		"nom": "Shisha",
		"variable_products": []map[string]interface{}{
			{"id": 10, "color": "Black", "quantity": 2, "price": "150.00"},
		},
	}

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "bare array", body: []interface{}{product}},
		{name: "products wrapper", body: map[string]interface{}{"products": []interface{}{product}}},
		{name: "data wrapper", body: map[string]interface{}{"data": []interface{}{product}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Fatalf("unexpected auth header %q", got)
				}
				_ = json.NewEncoder(w).Encode(tc.body)
			}))

			products, err := client.FetchProducts(context.Background(), session())
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(products) != 1 || products[0].Name != "Shisha" {
				t.Fatalf("unexpected products: %+v", products)
			}
		})
	}
}

func TestFetchProducts_Normalization(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Vape Pen", "category_id": 2, "category": {"nom": "VAPE"},
			 "variable_products": [
				{"id": 10, "color": "Blue", "quantity": 4, "price": 99.5},
				{"id": 11, "price": "not-a-number"},
				{"id": 12, "color": "Red", "quantity": 1, "price": "20.25"}
			]},
			{"id": 2, "variable_products": []}
		]`))
	}))

	products, err := client.FetchProducts(context.Background(), session())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	p := products[0]
	if p.Name != "Vape Pen" || p.CategoryID != 2 || p.CategoryName != "VAPE" {
		t.Fatalf("unexpected product: %+v", p)
	}

	blue := p.Variants[0]
	if !blue.Price.Equal(decimal.NewFromFloat(99.5)) || blue.Quantity != 4 {
		t.Fatalf("unexpected variant: %+v", blue)
	}
	if blue.Name != "Vape Pen (Blue)" || blue.ProductID != 1 {
		t.Fatalf("unexpected variant naming: %+v", blue)
	}

	// Unparseable price coerces to zero, missing quantity to zero,
	// missing color to the placeholder.
	broken := p.Variants[1]
	if !broken.Price.IsZero() || broken.Quantity != 0 || broken.Color != "N/A" {
		t.Fatalf("unexpected coercion: %+v", broken)
	}

	if products[1].Name != "Unnamed Product" || products[1].CategoryName != "Uncategorized" {
		t.Fatalf("unexpected fallbacks: %+v", products[1])
	}
}

func TestFetchProducts_InvalidShape(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))

	if _, err := client.FetchProducts(context.Background(), session()); err == nil {
		t.Fatalf("expected error for unknown response shape")
	}
}

func TestFetchCategories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "nom": "SHISHA"}, {"id": 2}]`))
	}))

	categories, err := client.FetchCategories(context.Background(), session())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "SHISHA" || categories[1].Name != "Unnamed Category" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestSubmitOrder_PayloadShape(t *testing.T) {
	var captured map[string]json.RawMessage
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode order: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	order := domain.Order{
		UserID:   7,
		ClientID: 1,
		Total:    decimal.RequireFromString("20.00"),
		Details: []domain.OrderDetail{
			{Quantity: 2, VariantID: 10},
		},
	}
	if err := client.SubmitOrder(context.Background(), session(), order); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, key := range []string{"user_id", "client_id", "total", "detail_orders"} {
		if _, ok := captured[key]; !ok {
			t.Fatalf("missing %q in payload: %v", key, captured)
		}
	}
	var details []map[string]int64
	if err := json.Unmarshal(captured["detail_orders"], &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details) != 1 || details[0]["variable_products_id"] != 10 || details[0]["quantity"] != 2 {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestSubmitOrder_FailureCarriesServiceMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "insufficient stock for variant 10"})
	}))

	err := client.SubmitOrder(context.Background(), session(), domain.Order{Total: decimal.Zero})
	if err == nil || !contains(err.Error(), "insufficient stock for variant 10") {
		t.Fatalf("expected verbatim service message, got %v", err)
	}
}

func TestOrderHistory_Envelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/history" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true, "data": [
			{"order_id": 3, "status": "paid", "total": "45.00", "client_name": "Walk-in Customer",
			 "products": [{"name": "Shisha (Black)", "quantity": 1, "price": 45}]}
		]}`))
	}))

	records, err := client.OrderHistory(context.Background(), session())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || records[0].OrderID != 3 || records[0].Status != "paid" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if !records[0].Total.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("unexpected total: %s", records[0].Total)
	}
}

func TestOrderHistory_ServiceReportedFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "no orders found"}`))
	}))

	if _, err := client.OrderHistory(context.Background(), session()); err == nil || !contains(err.Error(), "no orders found") {
		t.Fatalf("expected envelope failure message, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/3/cancel" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.CancelOrder(context.Background(), session(), 3); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestStockAdjustments(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.AddStock(context.Background(), session(), 10, 5); err != nil {
		t.Fatalf("add stock: %v", err)
	}
	if gotPath != "/api/10/add-quantity" || gotMethod != http.MethodPut || gotBody["quantity"] != 5 {
		t.Fatalf("unexpected add request: %s %s %v", gotMethod, gotPath, gotBody)
	}

	if err := client.ReduceStock(context.Background(), session(), 10, 2); err != nil {
		t.Fatalf("reduce stock: %v", err)
	}
	if gotPath != "/api/10/reduce-quantity" || gotBody["quantity"] != 2 {
		t.Fatalf("unexpected reduce request: %s %v", gotPath, gotBody)
	}

	if err := client.AddStock(context.Background(), session(), 10, 0); err == nil {
		t.Fatalf("expected rejection of non-positive amount")
	}
}

func TestVariantTransactions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/variable-products/10/transactions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success": true, "data": [
			{"id": 1, "user_name": "caissier", "action": "add", "value": 5, "q_before": 0, "q_after": 5}
		]}`))
	}))

	txs, err := client.VariantTransactions(context.Background(), session(), 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].QuantityAfter != 5 || txs[0].Action != "add" {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
