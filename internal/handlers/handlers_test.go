package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/permissions"
	"launcher-api/internal/routes"
	"launcher-api/internal/services"
	"launcher-api/internal/storage"
	"launcher-api/internal/token"
)

type testAPI struct {
	router *Router
	codec  token.Codec
	hub    *services.HubService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	codec := token.NewPlainCodec()
	hub := services.NewHubService(storage.NewMemoryStore(), permissions.NewController("", logger), nil, false, logger)
	factory := NewHandlerFactory(hub, codec, services.NewAuthLimiter(0, 0, logger), services.NewQRService(logger), logger)

	return &testAPI{router: factory.CreateRouter(), codec: codec, hub: hub}
}

// call dispatches a request and decodes the JSON response body
func (a *testAPI) call(t *testing.T, method, path, tok string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	req := &Request{Method: method, Path: path, Query: url.Values{}, Headers: http.Header{}, ClientIP: "192.0.2.1"}
	if u, err := url.Parse(path); err == nil {
		req.Path = u.Path
		req.Query = u.Query()
	}
	if tok != "" {
		req.Headers.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		req.Body = data
	}

	resp := a.router.Dispatch(context.Background(), req)
	if resp.Raw != nil {
		return resp.Status, nil
	}

	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("response is not a JSON object: %s", data)
	}
	return resp.Status, out
}

func (a *testAPI) signup(t *testing.T, username string) string {
	t.Helper()
	status, body := a.call(t, http.MethodPost, routes.Signup, "", map[string]string{
		"username": username, "password": "pw-" + username, "email": username + "@example.com",
	})
	if status != http.StatusOK {
		t.Fatalf("signup %s: status %d, body %v", username, status, body)
	}
	return body["token"].(string)
}

func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := a.codec.Issue("Anton")
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestSignupLoginRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.call(t, http.MethodPost, routes.Signup, "", map[string]string{
		"username": "alice", "password": "secret", "email": "alice@example.com",
	})
	if status != http.StatusOK || body["username"] != "alice" || body["isPremium"] != false {
		t.Fatalf("unexpected signup response %d %v", status, body)
	}

	status, body = api.call(t, http.MethodPost, routes.Login, "", map[string]string{
		"username": "alice", "password": "secret",
	})
	if status != http.StatusOK {
		t.Fatalf("login failed: %d %v", status, body)
	}

	username, err := api.codec.Verify(body["token"].(string))
	if err != nil || username != "alice" {
		t.Errorf("token resolves to %q, %v; want alice", username, err)
	}

	status, body = api.call(t, http.MethodPost, routes.Login, "", map[string]string{
		"username": "alice", "password": "nope",
	})
	if status != http.StatusUnauthorized || body["message"] != "Invalid credentials" {
		t.Errorf("expected 401 Invalid credentials, got %d %v", status, body)
	}
}

func TestSignupDuplicateAndMissing(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "bob")

	status, body := api.call(t, http.MethodPost, routes.Signup, "", map[string]string{
		"username": "bob", "password": "other", "email": "other@example.com",
	})
	if status != http.StatusBadRequest || body["message"] != "Username already exists" {
		t.Errorf("expected duplicate 400, got %d %v", status, body)
	}

	status, _ = api.call(t, http.MethodPost, routes.Login, "", map[string]string{
		"username": "bob", "password": "pw-bob",
	})
	if status != http.StatusOK {
		t.Error("duplicate signup must not change the original password")
	}

	status, body = api.call(t, http.MethodPost, routes.Signup, "", map[string]string{"username": "carl"})
	if status != http.StatusBadRequest || body["message"] != "All fields are required" {
		t.Errorf("expected missing fields 400, got %d %v", status, body)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.signup(t, "mallory")

	adminRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, routes.AdminUsers},
		{http.MethodPost, routes.DeleteUser},
		{http.MethodPost, routes.GrantPremium},
		{http.MethodPost, routes.RemovePremium},
		{http.MethodGet, routes.AdminPayments},
		{http.MethodPost, routes.ConfirmPayment},
		{http.MethodPost, routes.Broadcast},
	}

	for _, rt := range adminRoutes {
		for _, tok := range []string{userToken, "", "%%%"} {
			status, body := api.call(t, rt.method, rt.path, tok, map[string]interface{}{"username": "mallory", "paymentId": 1, "message": "x"})
			if status != http.StatusForbidden || body["message"] != "Access denied" {
				t.Errorf("%s %s with token %q: got %d %v, want 403", rt.method, rt.path, tok, status, body)
			}
		}
	}

	status, _ := api.call(t, http.MethodGet, routes.UserStatus, userToken, nil)
	if status != http.StatusOK {
		t.Error("refused admin calls must not change the caller")
	}
}

func TestGrantPremiumThenStatus(t *testing.T) {
	api := newTestAPI(t)
	userToken := api.signup(t, "dora")
	admin := api.adminToken(t)

	status, body := api.call(t, http.MethodPost, routes.GrantPremium, admin, map[string]string{"username": "dora"})
	if status != http.StatusOK || body["message"] != "Premium granted" {
		t.Fatalf("grant failed: %d %v", status, body)
	}

	status, body = api.call(t, http.MethodGet, routes.UserStatus, userToken, nil)
	if status != http.StatusOK || body["isPremium"] != true || body["username"] != "dora" {
		t.Errorf("expected premium status, got %d %v", status, body)
	}

	status, _ = api.call(t, http.MethodPost, routes.RemovePremium, admin, map[string]string{"username": "dora"})
	if status != http.StatusOK {
		t.Fatalf("remove failed: %d", status)
	}
	_, body = api.call(t, http.MethodGet, routes.UserStatus, userToken, nil)
	if body["isPremium"] != false {
		t.Errorf("expected premium removed, got %v", body)
	}

	status, body = api.call(t, http.MethodPost, routes.GrantPremium, admin, map[string]string{"username": "ghost"})
	if status != http.StatusNotFound || body["message"] != "User not found" {
		t.Errorf("expected 404 User not found, got %d %v", status, body)
	}
}

func TestUserStatus(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.call(t, http.MethodGet, routes.UserStatus, "", nil)
	if status != http.StatusUnauthorized || body["message"] != "Unauthorized" {
		t.Errorf("expected 401 without token, got %d %v", status, body)
	}

	ghost, _ := api.codec.Issue("ghost")
	status, _ = api.call(t, http.MethodGet, routes.UserStatus, ghost, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for a token without a user record, got %d", status)
	}
}

func TestChatIDsAndSince(t *testing.T) {
	api := newTestAPI(t)
	tok := api.signup(t, "emma")

	for i := 1; i <= 3; i++ {
		status, body := api.call(t, http.MethodPost, routes.ChatSend, tok, map[string]string{"message": "hi", "group": "NMS"})
		if status != http.StatusOK || body["messageId"] != float64(i) || body["success"] != true {
			t.Fatalf("send %d: got %d %v", i, status, body)
		}
	}

	status, body := api.call(t, http.MethodGet, routes.ChatMessages+"?since=2", tok, nil)
	if status != http.StatusOK {
		t.Fatalf("messages failed: %d %v", status, body)
	}
	all := body["messages"].([]interface{})
	newer := body["newMessages"].([]interface{})
	if len(all) != 3 || len(newer) != 1 {
		t.Fatalf("expected 3 messages and 1 new, got %d and %d", len(all), len(newer))
	}
	if m := newer[0].(map[string]interface{}); m["id"] != float64(3) || m["tier"] != "Free Version" {
		t.Errorf("unexpected new message %v", m)
	}

	_, body = api.call(t, http.MethodGet, routes.ChatMessages+"?group=Other", tok, nil)
	if n := len(body["messages"].([]interface{})); n != 0 {
		t.Errorf("expected no messages in Other, got %d", n)
	}

	status, body = api.call(t, http.MethodPost, routes.ChatSend, tok, map[string]string{"message": "hi"})
	if status != http.StatusBadRequest || body["message"] != "Message and group are required" {
		t.Errorf("expected 400 without group, got %d %v", status, body)
	}

	status, _ = api.call(t, http.MethodGet, routes.ChatMessages, "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}
}

func TestCashPaymentConfirmFlow(t *testing.T) {
	api := newTestAPI(t)
	tok := api.signup(t, "finn")
	admin := api.adminToken(t)

	status, body := api.call(t, http.MethodPost, routes.CashPayment, tok, map[string]float64{"amount": 15})
	if status != http.StatusOK || body["message"] != "Cash payment notification sent to admin" {
		t.Fatalf("cash payment failed: %d %v", status, body)
	}
	paymentID := body["paymentId"]

	_, body = api.call(t, http.MethodGet, routes.AdminPayments, admin, nil)
	payments := body["payments"].([]interface{})
	if len(payments) != 1 || payments[0].(map[string]interface{})["status"] != "pending" {
		t.Fatalf("expected one pending payment, got %v", payments)
	}

	status, body = api.call(t, http.MethodPost, routes.ConfirmPayment, admin, map[string]interface{}{"paymentId": 99})
	if status != http.StatusNotFound || body["message"] != "Payment not found" {
		t.Errorf("expected 404 for unknown payment, got %d %v", status, body)
	}
	_, body = api.call(t, http.MethodGet, routes.UserStatus, tok, nil)
	if body["isPremium"] != false {
		t.Error("unknown payment confirmation must not grant premium")
	}

	status, _ = api.call(t, http.MethodPost, routes.ConfirmPayment, admin, map[string]interface{}{"paymentId": paymentID})
	if status != http.StatusOK {
		t.Fatalf("confirm failed: %d", status)
	}

	_, body = api.call(t, http.MethodGet, routes.AdminPayments, admin, nil)
	if s := body["payments"].([]interface{})[0].(map[string]interface{})["status"]; s != "confirmed" {
		t.Errorf("expected confirmed, got %v", s)
	}
	_, body = api.call(t, http.MethodGet, routes.UserStatus, tok, nil)
	if body["isPremium"] != true {
		t.Error("confirmation must grant premium")
	}
}

func TestStripePayment(t *testing.T) {
	api := newTestAPI(t)
	tok := api.signup(t, "gail")
	admin := api.adminToken(t)

	status, body := api.call(t, http.MethodPost, routes.StripePayment, tok, map[string]float64{"amount": 1500})
	if status != http.StatusOK || body["success"] != true {
		t.Fatalf("stripe payment failed: %d %v", status, body)
	}

	_, body = api.call(t, http.MethodGet, routes.UserStatus, tok, nil)
	if body["isPremium"] != true {
		t.Error("stripe payment must activate premium")
	}

	_, body = api.call(t, http.MethodGet, routes.AdminPayments, admin, nil)
	p := body["payments"].([]interface{})[0].(map[string]interface{})
	if p["amount"] != float64(15) || p["status"] != "completed" || p["type"] != "stripe" {
		t.Errorf("unexpected stripe payment %v", p)
	}

	ghost, _ := api.codec.Issue("ghost")
	status, _ = api.call(t, http.MethodPost, routes.StripePayment, ghost, map[string]float64{"amount": 1500})
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user, got %d", status)
	}
}

func TestDeleteUserKeepsHistory(t *testing.T) {
	api := newTestAPI(t)
	tok := api.signup(t, "hugo")
	admin := api.adminToken(t)
	api.call(t, http.MethodPost, routes.ChatSend, tok, map[string]string{"message": "bye", "group": "NMS"})
	api.call(t, http.MethodPost, routes.CashPayment, tok, map[string]float64{"amount": 5})
	api.call(t, http.MethodPost, routes.Broadcast, admin, map[string]string{"message": "hello all"})

	status, body := api.call(t, http.MethodPost, routes.DeleteUser, admin, map[string]string{"username": "hugo"})
	if status != http.StatusOK || body["message"] != "User deleted" {
		t.Fatalf("delete failed: %d %v", status, body)
	}

	_, body = api.call(t, http.MethodGet, routes.AdminUsers, admin, nil)
	if n := len(body["users"].([]interface{})); n != 0 {
		t.Errorf("expected no users after delete, got %d", n)
	}
	_, body = api.call(t, http.MethodGet, routes.ChatMessages, admin, nil)
	if n := len(body["messages"].([]interface{})); n != 1 {
		t.Errorf("messages must survive user deletion, got %d", n)
	}
	_, body = api.call(t, http.MethodGet, routes.AdminPayments, admin, nil)
	if n := len(body["payments"].([]interface{})); n != 1 {
		t.Errorf("payments must survive user deletion, got %d", n)
	}
	_, body = api.call(t, http.MethodGet, routes.Broadcasts, tok, nil)
	if n := len(body["broadcasts"].([]interface{})); n != 1 {
		t.Errorf("broadcasts must survive user deletion, got %d", n)
	}

	status, _ = api.call(t, http.MethodPost, routes.DeleteUser, admin, map[string]string{"username": "hugo"})
	if status != http.StatusOK {
		t.Errorf("deleting an absent user is a no-op, got %d", status)
	}
}

func TestBroadcasts(t *testing.T) {
	api := newTestAPI(t)
	tok := api.signup(t, "iris")
	admin := api.adminToken(t)

	status, body := api.call(t, http.MethodPost, routes.Broadcast, admin, map[string]string{})
	if status != http.StatusBadRequest || body["message"] != "Message required" {
		t.Errorf("expected 400 Message required, got %d %v", status, body)
	}

	api.call(t, http.MethodPost, routes.Broadcast, admin, map[string]string{"message": "one"})
	status, body = api.call(t, http.MethodPost, routes.Broadcast, admin, map[string]string{"message": "two"})
	if status != http.StatusOK || body["broadcast"].(map[string]interface{})["id"] != float64(2) {
		t.Fatalf("unexpected broadcast response %d %v", status, body)
	}

	_, body = api.call(t, http.MethodGet, routes.Broadcasts+"?since=1", tok, nil)
	if len(body["broadcasts"].([]interface{})) != 2 || len(body["newBroadcasts"].([]interface{})) != 1 {
		t.Errorf("unexpected broadcasts %v", body)
	}

	status, _ = api.call(t, http.MethodGet, routes.Broadcasts, "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}
}

func TestPaymentQR(t *testing.T) {
	api := newTestAPI(t)
	owner := api.signup(t, "jade")
	other := api.signup(t, "kurt")
	admin := api.adminToken(t)

	_, body := api.call(t, http.MethodPost, routes.CashPayment, owner, map[string]float64{"amount": 20})
	path := routes.PaymentQR + "?id=1"
	if body["paymentId"] != float64(1) {
		t.Fatalf("unexpected payment id %v", body["paymentId"])
	}

	if status, _ := api.call(t, http.MethodGet, path, owner, nil); status != http.StatusOK {
		t.Errorf("owner should get the receipt, got %d", status)
	}
	if status, _ := api.call(t, http.MethodGet, path, admin, nil); status != http.StatusOK {
		t.Errorf("admin should get the receipt, got %d", status)
	}
	if status, _ := api.call(t, http.MethodGet, path, other, nil); status != http.StatusForbidden {
		t.Errorf("other users must be refused, got %d", status)
	}
	if status, _ := api.call(t, http.MethodGet, routes.PaymentQR+"?id=9", owner, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown payment, got %d", status)
	}
	if status, _ := api.call(t, http.MethodGet, routes.PaymentQR+"?id=x", owner, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", status)
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	api.signup(t, "liam")

	status, body := api.call(t, http.MethodGet, routes.Health, "", nil)
	if status != http.StatusOK || body["status"] != "ok" || body["users"] != float64(1) || body["backend"] != "memory" {
		t.Errorf("unexpected health response %d %v", status, body)
	}
}

func TestLoginRateLimited(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	codec := token.NewPlainCodec()
	hub := services.NewHubService(storage.NewMemoryStore(), permissions.NewController("", logger), nil, false, logger)
	factory := NewHandlerFactory(hub, codec, services.NewAuthLimiter(2, time.Minute, logger), services.NewQRService(logger), logger)
	api := &testAPI{router: factory.CreateRouter(), codec: codec, hub: hub}

	creds := map[string]string{"username": "ghost", "password": "nope"}
	for i := 0; i < 2; i++ {
		if status, _ := api.call(t, http.MethodPost, routes.Login, "", creds); status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, status)
		}
	}

	status, body := api.call(t, http.MethodPost, routes.Login, "", creds)
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if body["message"] != "Too many attempts, try again later" {
		t.Errorf("unexpected message %v", body["message"])
	}

	// Signup is counted separately
	api.signup(t, "alice")
}
