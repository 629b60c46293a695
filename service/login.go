package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"bili-ticket-cli/model"
)

// LoginState is the observable progress of one QR login attempt.
type LoginState int

const (
	StateInit LoginState = iota
	StateChallengeIssued
	StateWaitingScan
	StateScannedPendingConfirm
	StateSuccess
	StateExpired
	StateRejected
	StateTimeout
)

func (s LoginState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateChallengeIssued:
		return "challenge issued"
	case StateWaitingScan:
		return "waiting for scan"
	case StateScannedPendingConfirm:
		return "scanned, pending confirm"
	case StateSuccess:
		return "success"
	case StateExpired:
		return "expired"
	case StateRejected:
		return "rejected"
	case StateTimeout:
		return "timeout"
	}
	return "unknown"
}

// QRChallenge is a short-lived login token pair the user scans with the
// vendor's mobile app. It is consumed by one poll loop and never reused.
type QRChallenge struct {
	URL string
	Key string
}

// Inner status codes of the poll endpoint.
const (
	pollCodeSuccess = 0
	pollCodeWaiting = 86101
	pollCodeScanned = 86090
	pollCodeExpired = 86038
)

type pollStatus int

const (
	pollWaiting pollStatus = iota
	pollScanned
	pollSuccess
	pollExpired
	pollRejected
	pollTransient
)

// pollOutcome is one poll iteration's result as a tagged value, so the
// state machine switches over a closed set instead of raw vendor codes.
type pollOutcome struct {
	status  pollStatus
	cookies []*http.Cookie
	message string
}

type qrChallengeData struct {
	URL       string `json:"url"`
	QRCodeKey string `json:"qrcode_key"`
}

// RequestQRChallenge asks the passport service for a login QR code. Any
// transport error or non-zero status pauses and retries; exhausting the
// attempt budget fails the login before it starts.
func (c *Client) RequestQRChallenge(ctx context.Context) (QRChallenge, error) {
	for attempt := 1; attempt <= c.challengeRetryMax; attempt++ {
		var env model.APIEnvelope[qrChallengeData]
		err := c.getJSON(ctx, c.passportURL+"/x/passport-login/web/qrcode/generate", &env)
		switch {
		case err != nil:
			slog.Debug("qr challenge request failed", "attempt", attempt, "error", err)
		case env.StatusCode() != 0:
			slog.Debug("qr challenge rejected", "attempt", attempt, "code", env.StatusCode())
		case env.Data.URL == "" || env.Data.QRCodeKey == "":
			slog.Debug("qr challenge response incomplete", "attempt", attempt)
		default:
			return QRChallenge{URL: env.Data.URL, Key: env.Data.QRCodeKey}, nil
		}
		time.Sleep(c.challengeRetryPause)
	}
	return QRChallenge{}, &LoginError{Reason: LoginFailureChallengeUnavailable}
}

// PollQRLogin polls the scan status of one challenge at a fixed interval
// until a terminal outcome or the iteration budget runs out. onState, if
// non-nil, sees the state each poll resolved to, in receipt order. On
// success the session cookies are installed on the client and returned.
//
// Transport errors and malformed responses during polling are logged and
// skipped; they spend budget but are never terminal.
func (c *Client) PollQRLogin(ctx context.Context, challenge QRChallenge, onState func(LoginState)) (map[string]string, error) {
	notify := func(s LoginState) {
		if onState != nil {
			onState(s)
		}
	}

	for i := 0; i < c.pollIterationMax; i++ {
		outcome := c.pollOnce(ctx, challenge.Key)
		switch outcome.status {
		case pollSuccess:
			notify(StateSuccess)
			cookies := make(map[string]string, len(outcome.cookies))
			for _, ck := range outcome.cookies {
				cookies[ck.Name] = ck.Value
			}
			c.SetCookies(cookies)
			return cookies, nil
		case pollWaiting:
			notify(StateWaitingScan)
		case pollScanned:
			notify(StateScannedPendingConfirm)
		case pollExpired:
			notify(StateExpired)
			return nil, &LoginError{Reason: LoginFailureExpired}
		case pollRejected:
			notify(StateRejected)
			return nil, &LoginError{Reason: LoginFailureRejected, Message: outcome.message}
		case pollTransient:
			slog.Debug("qr poll failed", "iteration", i+1, "error", outcome.message)
		}
		time.Sleep(c.pollInterval)
	}

	notify(StateTimeout)
	return nil, &LoginError{Reason: LoginFailureTimeout}
}

type qrPollData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) pollOnce(ctx context.Context, key string) pollOutcome {
	endpoint := c.passportURL + "/x/passport-login/web/qrcode/poll?qrcode_key=" + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pollOutcome{status: pollTransient, message: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return pollOutcome{status: pollTransient, message: err.Error()}
	}
	defer res.Body.Close()

	var env model.APIEnvelope[qrPollData]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return pollOutcome{status: pollTransient, message: err.Error()}
	}
	if env.StatusCode() != 0 {
		// outer failure, the challenge itself is still live
		return pollOutcome{status: pollTransient, message: env.StatusMessage()}
	}

	switch env.Data.Code {
	case pollCodeSuccess:
		return pollOutcome{status: pollSuccess, cookies: res.Cookies()}
	case pollCodeWaiting:
		return pollOutcome{status: pollWaiting}
	case pollCodeScanned:
		return pollOutcome{status: pollScanned}
	case pollCodeExpired:
		return pollOutcome{status: pollExpired}
	default:
		msg := env.Data.Message
		if msg == "" {
			msg = env.StatusMessage()
		}
		return pollOutcome{status: pollRejected, message: msg}
	}
}
