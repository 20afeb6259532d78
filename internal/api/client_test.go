package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// staticTokens is a TokenSource with a settable token and an invalidation
// flag.
type staticTokens struct {
	token       string
	invalidated bool
}

func (s *staticTokens) Token() string { return s.token }
func (s *staticTokens) Invalidate() {
	s.token = ""
	s.invalidated = true
}

func newTestClient(t *testing.T, handler http.Handler, tokens *staticTokens) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, tokens)
}

func TestLoginDecodesResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding login body: %v", err)
		}
		if body["username"] != "ops" || body["password"] != "secret" {
			t.Errorf("login body = %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Login successful!",
			"token":    "abc",
			"id":       1,
			"username": "ops",
			"role":     "admin",
		})
	})
	c := newTestClient(t, handler, &staticTokens{})

	result, err := c.Login(context.Background(), "ops", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token != "abc" || result.ID != 1 || result.Username != "ops" || result.Role != "admin" {
		t.Errorf("result = %+v", result)
	}
}

func TestAuthenticatedCallAttachesCredential(t *testing.T) {
	var gotToken string
	var gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("accessToken")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte("[]"))
	})
	c := newTestClient(t, handler, &staticTokens{token: "abc"})

	if _, err := c.ListFulfillmentQueue(context.Background()); err != nil {
		t.Fatalf("ListFulfillmentQueue failed: %v", err)
	}
	if gotToken != "abc" {
		t.Errorf("accessToken header = %q, want abc", gotToken)
	}
	if gotRequestID == "" {
		t.Error("request id header missing")
	}
}

func TestMissingCredentialSendsNoHeader(t *testing.T) {
	sawHeader := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Accesstoken"]
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "User not logged in!"})
	})
	tokens := &staticTokens{}
	c := newTestClient(t, handler, tokens)

	_, err := c.ListOrderHistory(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized classification", err)
	}
	if sawHeader {
		t.Error("no credential header should be sent when anonymous")
	}
}

func TestAuthRejectionInvalidatesCredential(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Admin access required"})
	})
	tokens := &staticTokens{token: "stale"}
	c := newTestClient(t, handler, tokens)

	err := c.DeleteFruit(context.Background(), 3)
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized classification", err)
	}
	if !tokens.invalidated {
		t.Error("credential should be invalidated on auth rejection")
	}
}

func TestServerErrorMessageSurfacedVerbatim(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Mango already exists."})
	})
	c := newTestClient(t, handler, &staticTokens{token: "abc"})

	_, err := c.AddFruit(context.Background(), "Mango", 150, 10)
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T, want *Error", err)
	}
	if apiErr.Kind != KindRemote || apiErr.Message != "Mango already exists." {
		t.Errorf("classified error = %+v", apiErr)
	}
}

func TestNetworkFailureClassified(t *testing.T) {
	// Point at a closed server.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, time.Second, &staticTokens{})

	_, err := c.ListFruits(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("error = %v, want network classification", err)
	}
	if err.Error() != NetworkErrMessage {
		t.Errorf("message = %q, want the generic connectivity message", err.Error())
	}
}

func TestAddFruitSendsBatchAndReturnsServerID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []Fruit
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Fatalf("decoding addFruit body: %v", err)
		}
		if len(batch) != 1 || batch[0].Name != "Mango" || batch[0].PriceCents != 150 || batch[0].Stock != 10 {
			t.Errorf("batch = %+v", batch)
		}
		_ = json.NewEncoder(w).Encode([]map[string]int{{"id": 42}})
	})
	c := newTestClient(t, handler, &staticTokens{token: "abc"})

	id, err := c.AddFruit(context.Background(), "Mango", 150, 10)
	if err != nil {
		t.Fatalf("AddFruit failed: %v", err)
	}
	if id != 42 {
		t.Errorf("server id = %d, want 42", id)
	}
}

func TestListOrdersFlattensJoinedRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{
				"id": 5,
				"createdAt": "2026-08-30T12:00:00Z",
				"usersId": 2,
				"total_price_cents": 450,
				"fulfilled": false,
				"users": {"username": "jo"},
				"orderDetails": [
					{"id": 9, "fruitsId": 7, "quantity": 3, "fruits": {"name": "Mango", "price_cents": 150}}
				]
			}
		]`))
	})
	c := newTestClient(t, handler, &staticTokens{token: "abc"})

	orders, err := c.ListFulfillmentQueue(context.Background())
	if err != nil {
		t.Fatalf("ListFulfillmentQueue failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.ID != 5 || o.UsersID != 2 || o.Username != "jo" || o.TotalPriceCents != 450 {
		t.Errorf("order = %+v", o)
	}
	if len(o.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(o.Details))
	}
	d := o.Details[0]
	if d.FruitID != 7 || d.FruitName != "Mango" || d.PriceCents != 150 || d.Quantity != 3 {
		t.Errorf("detail = %+v", d)
	}
}
