package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/store"
)

func TestShortHash(t *testing.T) {
	a, b := shortHash("123:abc"), shortHash("123:abd")
	if len(a) != 16 || a == b {
		t.Errorf("shortHash = %q, %q", a, b)
	}
	if shortHash("123:abc") != a {
		t.Error("shortHash is not stable")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetryDelayFromError(t *testing.T) {
	cases := []struct {
		err  error
		want time.Duration
	}{
		{nil, 0},
		{errors.New("Too Many Requests: retry after 7"), 7 * time.Second},
		{errors.New("too many requests"), 3 * time.Second},
		{timeoutErr{}, 2 * time.Second},
		{errors.New("boom"), time.Second},
	}
	for _, c := range cases {
		if got := retryDelayFromError(c.err); got != c.want {
			t.Errorf("retryDelayFromError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

type fakeUpdates struct {
	calls  int
	cancel context.CancelFunc
}

func (f *fakeUpdates) GetUpdates(u tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.calls++
	switch f.calls {
	case 1:
		return []tgbotapi.Update{{UpdateID: 10}, {UpdateID: 11}}, nil
	case 2:
		if u.Offset != 12 {
			return nil, errors.New("bad offset")
		}
		f.cancel()
		return nil, nil
	}
	return nil, errors.New("called after cancel")
}

func TestRunPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &fakeUpdates{cancel: cancel}

	var seen []int
	runPolling(ctx, src, zap.NewNop(), func(u tgbotapi.Update) { seen = append(seen, u.UpdateID) })

	if len(seen) != 2 || seen[1] != 11 {
		t.Errorf("handled %v", seen)
	}
	if src.calls != 2 {
		t.Errorf("GetUpdates calls = %d", src.calls)
	}
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	healthz(store.NewMemoryRepo())(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", w.Code, w.Body.String())
	}
}
