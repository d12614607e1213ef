package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	"github.com/ZamoritaCR/neurostream/internal/config"
	ledgerdomain "github.com/ZamoritaCR/neurostream/internal/ledger/domain"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"go.uber.org/zap"
)

type ledgerStub struct {
	decision ledgerdomain.Decision
	incs     int
}

func (s *ledgerStub) CanUse(ctx context.Context, userID int64, feature ledgerdomain.Feature) ledgerdomain.Decision {
	return s.decision
}

func (s *ledgerStub) Increment(ctx context.Context, userID int64, feature ledgerdomain.Feature) {
	s.incs++
}

type behaviorSvcStub struct {
	tracked []behaviordomain.TrackRequest
}

func (s *behaviorSvcStub) Track(ctx context.Context, userID int64, req behaviordomain.TrackRequest) error {
	s.tracked = append(s.tracked, req)
	return nil
}

func (s *behaviorSvcStub) EngagementScore(ctx context.Context, userID int64, days int) behaviordomain.Score {
	return behaviordomain.Score{EngagementLevel: behaviordomain.EngagementLow}
}

func (s *behaviorSvcStub) FavoriteContentTypes(ctx context.Context, userID int64, days int) []behaviordomain.ContentTypeCount {
	return nil
}

func (s *behaviorSvcStub) PeakUsageHours(ctx context.Context, userID int64, days int) map[int]int {
	return map[int]int{}
}

func (s *behaviorSvcStub) Insights(ctx context.Context, userID int64) behaviordomain.Insights {
	return behaviordomain.Insights{TimePreference: behaviordomain.TimeEvening}
}

type moodSvcStub struct{}

func (s *moodSvcStub) Track(ctx context.Context, userID int64, req mooddomain.TrackRequest) error {
	return nil
}

func (s *moodSvcStub) Patterns(ctx context.Context, userID int64, days int) mooddomain.Patterns {
	return mooddomain.Patterns{MoodByHour: map[int]string{}}
}

func (s *moodSvcStub) Streak(ctx context.Context, userID int64) int { return 3 }

type queueStub struct {
	added bool
	err   error
}

func (s *queueStub) Add(ctx context.Context, userID int64, req queuedomain.AddRequest) (bool, error) {
	return s.added, s.err
}

func (s *queueStub) UpdateStatus(ctx context.Context, userID int64, itemID string, status queuedomain.QueueStatus) error {
	return s.err
}

func (s *queueStub) List(ctx context.Context, userID int64, status queuedomain.QueueStatus) ([]queuedomain.QueueItem, error) {
	return nil, s.err
}

func (s *queueStub) Stats(ctx context.Context, userID int64) queuedomain.Stats {
	return queuedomain.Stats{ByType: map[string]int{}}
}

type subStub struct {
	sub subscriptiondomain.Subscription
	err error
}

func (s *subStub) GetByUserID(ctx context.Context, userID int64) (subscriptiondomain.Subscription, error) {
	return s.sub, s.err
}

func (s *subStub) IsPremium(ctx context.Context, userID int64) bool {
	return s.sub.IsActivePremium()
}

type stubs struct {
	ledger *ledgerStub
	queue  *queueStub
	sub    *subStub
}

func setupServer(t *testing.T) (*gin.Engine, *stubs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	all := &stubs{
		ledger: &ledgerStub{decision: ledgerdomain.Decision{Allowed: true, Remaining: 4, Limit: 5}},
		queue:  &queueStub{added: true},
		sub:    &subStub{err: subscriptiondomain.ErrSubscriptionNotFound},
	}

	engine := gin.New()
	server := NewServer(ServerParam{
		Engine:      engine,
		Log:         zap.NewNop(),
		Cfg:         config.Config{},
		LedgerSvc:   all.ledger,
		BehaviorSvc: &behaviorSvcStub{},
		MoodSvc:     &moodSvcStub{},
		QueueSvc:    all.queue,
		SubSvc:      all.sub,
	})
	server.RegisterRoutes()
	return engine, all
}

func doRequest(engine *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSessionRequired(t *testing.T) {
	engine, _ := setupServer(t)

	for _, header := range []string{"", "abc", "0", "-5"} {
		rec := doRequest(engine, http.MethodGet, "/v1/usage/recommendation", header, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestCheckUsage(t *testing.T) {
	engine, _ := setupServer(t)

	rec := doRequest(engine, http.MethodGet, "/v1/usage/recommendation", "42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decision ledgerdomain.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 4 {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestIncrementUsageReturnsDecision(t *testing.T) {
	engine, all := setupServer(t)

	rec := doRequest(engine, http.MethodPost, "/v1/usage/quick_dope/increment", "42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if all.ledger.incs != 1 {
		t.Fatalf("expected one increment, got %d", all.ledger.incs)
	}
}

func TestAddToQueueStatusCodes(t *testing.T) {
	engine, all := setupServer(t)
	body := `{"content_id":"tt0133093","content_type":"movie"}`

	rec := doRequest(engine, http.MethodPost, "/v1/queue", "42", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for new item, got %d", rec.Code)
	}

	all.queue.added = false
	rec = doRequest(engine, http.MethodPost, "/v1/queue", "42", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}
}

func TestUpdateQueueStatusNotFound(t *testing.T) {
	engine, all := setupServer(t)
	all.queue.err = queuedomain.ErrItemNotFound

	rec := doRequest(engine, http.MethodPatch, "/v1/queue/123/status", "42", `{"status":"watched"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetSubscriptionDefaultsToFree(t *testing.T) {
	engine, _ := setupServer(t)

	rec := doRequest(engine, http.MethodGet, "/v1/subscription", "42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["plan_type"] != "free" || payload["premium"] != false {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestTrackBehavior(t *testing.T) {
	engine, _ := setupServer(t)

	rec := doRequest(engine, http.MethodPost, "/v1/behavior/events", "42", `{"action_type":"view"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doRequest(engine, http.MethodPost, "/v1/behavior/events", "42", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestWindowDaysParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]int{
		"":    defaultWindowDays,
		"7":   7,
		"abc": defaultWindowDays,
		"-1":  defaultWindowDays,
		"0":   defaultWindowDays,
	}
	for raw, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/behavior/engagement?days="+raw, nil)
		if got := windowDays(c); got != want {
			t.Fatalf("days=%q: expected %d, got %d", raw, want, got)
		}
	}
}
