package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(server.Client())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	client.passportURL = server.URL
	client.showURL = server.URL
	client.accountURL = server.URL
	client.challengeRetryPause = 0
	client.pollInterval = 0
	return client
}

func pollResponse(innerCode int, message string) string {
	if message == "" {
		return fmt.Sprintf(`{"code":0,"data":{"code":%d}}`, innerCode)
	}
	return fmt.Sprintf(`{"code":0,"data":{"code":%d,"message":%q}}`, innerCode, message)
}

func TestRequestQRChallenge_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/passport-login/web/qrcode/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"url":"https://passport.example/h5/qrcode","qrcode_key":"abc123"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	challenge, err := client.RequestQRChallenge(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if challenge.Key != "abc123" {
		t.Fatalf("unexpected key: %s", challenge.Key)
	}
	if challenge.URL == "" {
		t.Fatal("expected a challenge url")
	}
}

func TestRequestQRChallenge_ExhaustsRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	client.challengeRetryMax = 3

	_, err := client.RequestQRChallenge(context.Background())
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("expected LoginError, got %v", err)
	}
	if loginErr.Reason != LoginFailureChallengeUnavailable {
		t.Fatalf("unexpected reason: %v", loginErr.Reason)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRequestQRChallenge_RetriesNonZeroStatus(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		if current < 2 {
			_, _ = w.Write([]byte(`{"code":-412,"message":"rate limited"}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"data":{"url":"https://passport.example/qr","qrcode_key":"k"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	challenge, err := client.RequestQRChallenge(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if challenge.Key != "k" {
		t.Fatalf("unexpected key: %s", challenge.Key)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestPollQRLogin_StateSequenceAndCookies(t *testing.T) {
	script := []int{86101, 86101, 86090, 0}
	var call int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/passport-login/web/qrcode/poll" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("qrcode_key") != "k" {
			t.Fatalf("unexpected qrcode_key: %s", r.URL.Query().Get("qrcode_key"))
		}
		step := int(atomic.AddInt32(&call, 1)) - 1
		if step >= len(script) {
			t.Fatalf("poll called after terminal response (call %d)", step+1)
		}
		code := script[step]
		if code == 0 {
			http.SetCookie(w, &http.Cookie{Name: "SESSDATA", Value: "secret", Path: "/"})
			http.SetCookie(w, &http.Cookie{Name: "bili_jct", Value: "csrf", Path: "/"})
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pollResponse(code, "")))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	var states []LoginState
	cookies, err := client.PollQRLogin(context.Background(), QRChallenge{Key: "k"}, func(s LoginState) {
		states = append(states, s)
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	want := []LoginState{StateWaitingScan, StateWaitingScan, StateScannedPendingConfirm, StateSuccess}
	if len(states) != len(want) {
		t.Fatalf("expected %d states, got %v", len(want), states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state %d: expected %v, got %v", i, want[i], states[i])
		}
	}
	if cookies["SESSDATA"] != "secret" || cookies["bili_jct"] != "csrf" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if client.Cookies()["SESSDATA"] != "secret" {
		t.Fatal("expected cookies installed on the client")
	}
}

func TestPollQRLogin_Timeout(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&polls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pollResponse(86101, "")))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	var last LoginState
	_, err := client.PollQRLogin(context.Background(), QRChallenge{Key: "k"}, func(s LoginState) { last = s })
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("expected LoginError, got %v", err)
	}
	if loginErr.Reason != LoginFailureTimeout {
		t.Fatalf("unexpected reason: %v", loginErr.Reason)
	}
	if last != StateTimeout {
		t.Fatalf("expected final state timeout, got %v", last)
	}
	if polls != 240 {
		t.Fatalf("expected 240 polls, got %d", polls)
	}
}

func TestPollQRLogin_ExpiredShortCircuits(t *testing.T) {
	script := []int{86101, 86038}
	var call int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		step := int(atomic.AddInt32(&call, 1)) - 1
		if step >= len(script) {
			t.Fatalf("poll called after expiry (call %d)", step+1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pollResponse(script[step], "")))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.PollQRLogin(context.Background(), QRChallenge{Key: "k"}, nil)
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("expected LoginError, got %v", err)
	}
	if loginErr.Reason != LoginFailureExpired {
		t.Fatalf("unexpected reason: %v", loginErr.Reason)
	}
	if call != 2 {
		t.Fatalf("expected 2 polls, got %d", call)
	}
}

func TestPollQRLogin_RejectedCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pollResponse(86999, "account is blocked")))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.PollQRLogin(context.Background(), QRChallenge{Key: "k"}, nil)
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("expected LoginError, got %v", err)
	}
	if loginErr.Reason != LoginFailureRejected {
		t.Fatalf("unexpected reason: %v", loginErr.Reason)
	}
	if loginErr.Message != "account is blocked" {
		t.Fatalf("unexpected message: %s", loginErr.Message)
	}
}

func TestPollQRLogin_MalformedResponseKeepsPolling(t *testing.T) {
	var call int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		step := atomic.AddInt32(&call, 1)
		w.Header().Set("Content-Type", "application/json")
		if step == 1 {
			_, _ = w.Write([]byte(`<!doctype html>not json`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SESSDATA", Value: "s", Path: "/"})
		_, _ = w.Write([]byte(pollResponse(0, "")))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	cookies, err := client.PollQRLogin(context.Background(), QRChallenge{Key: "k"}, nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cookies["SESSDATA"] != "s" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if call != 2 {
		t.Fatalf("expected 2 polls, got %d", call)
	}
}

func TestUsername_NotLoggedIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":-101,"message":"账号未登录","data":{"isLogin":false}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	name, err := client.Username(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
}

func TestUsername_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/web-interface/nav" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"isLogin":true,"uname":"某用户"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	name, err := client.Username(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if name != "某用户" {
		t.Fatalf("unexpected name: %q", name)
	}
}
