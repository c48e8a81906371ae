package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *GatewayClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewGatewayClient(srv.URL+"/api/", zap.NewNop())
}

func TestStartChatSession(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat/session", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tr", body["language"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"session_id": "sess-1",
			"greeting":   "Merhaba!",
			"language":   "tr",
		})
	})

	resp, err := gw.StartChatSession(context.Background(), "tr")
	require.NoError(t, err)
	require.Equal(t, "sess-1", resp.SessionID)
	require.Equal(t, "Merhaba!", resp.Greeting)
}

func TestStartChatSession_MissingID(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"greeting":"hi"}`))
	})
	_, err := gw.StartChatSession(context.Background(), "en")
	require.Error(t, err)
}

func TestSendChatMessage(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/message", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "sess-1", body["session_id"])
		require.Equal(t, "hello", body["message"])
		require.Equal(t, "en", body["language"])
		_, _ = w.Write([]byte(`{"session_id":"sess-1","message_id":"m-1","response":"hi there","timestamp":"2026-01-02T03:04:05Z","tokens_used":{"input":3,"output":4}}`))
	})

	resp, err := gw.SendChatMessage(context.Background(), "sess-1", "hello", "en")
	require.NoError(t, err)
	require.Equal(t, "m-1", resp.MessageID)
	require.Equal(t, "hi there", resp.Response)
	require.Equal(t, 4, resp.TokensUsed.Output)
}

func TestNon2xxIsAPIError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":{"code":"DAILY_LIMIT_IP"}}`))
	})

	_, err := gw.StartVisualization(context.Background(), "data:image/jpeg;base64,AAAA", "rhinoplasty", map[string]string{"q1": "a"})
	require.Error(t, err)
	require.True(t, IsRateLimited(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "/meshy/visualize", apiErr.Path)
	require.Contains(t, apiErr.Body, "DAILY_LIMIT_IP")
}

func TestIsRateLimited_OtherErrors(t *testing.T) {
	require.False(t, IsRateLimited(errors.New("boom")))
	require.False(t, IsRateLimited(&APIError{StatusCode: http.StatusBadGateway}))
	require.False(t, IsRateLimited(nil))
}

func TestGetVisualizationQuestions(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/meshy/questions", r.URL.Path)
		_, _ = w.Write([]byte(`{"category":"hair_transplant","questions":[
			{"id":"norwood","question_en":"Hair loss stage?","question_tr":"Saç dökülme evresi?","type":"single","options":"1-2|3-4|5-7"}
		]}`))
	})

	resp, err := gw.GetVisualizationQuestions(context.Background(), "hair_transplant")
	require.NoError(t, err)
	require.Len(t, resp.Questions, 1)

	q := resp.Questions[0].ToModel()
	require.Equal(t, "norwood", q.ID)
	require.Equal(t, []string{"1-2", "3-4", "5-7"}, q.Options)
	require.Equal(t, "Saç dökülme evresi?", q.TextFor("tr"))
	require.Equal(t, "Hair loss stage?", q.TextFor("zh"))
}

func TestCheckVisualizationStatus(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/meshy/status/VIZ-20260101-ABC123", r.URL.Path)
		_, _ = w.Write([]byte(`{"viz_id":"VIZ-20260101-ABC123","status":"processing","output_image_url":null}`))
	})

	resp, err := gw.CheckVisualizationStatus(context.Background(), "VIZ-20260101-ABC123")
	require.NoError(t, err)
	require.Equal(t, "processing", resp.Status)
	require.Nil(t, resp.OutputImageURL)
}

func TestSubmitPostOpPhoto(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "VIZ-1", body["viz_id"])
		_, _ = w.Write([]byte(`{"viz_id":"VIZ-1","similarity_score":0.87}`))
	})

	resp, err := gw.SubmitPostOpPhoto(context.Background(), "VIZ-1", "data:image/jpeg;base64,AA")
	require.NoError(t, err)
	require.InDelta(t, 0.87, resp.SimilarityScore, 1e-9)
}

func TestGetBlogPosts_Query(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/blog/posts", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "ru", q.Get("language"))
		require.Equal(t, "dental", q.Get("category"))
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "10", q.Get("per_page"))
		_, _ = w.Write([]byte(`{"posts":[{"slug":"veneers-guide","title":"Veneers"}],"total":1,"page":1,"per_page":10,"total_pages":1}`))
	})

	resp, err := gw.GetBlogPosts(context.Background(), "ru", "dental", 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, "veneers-guide", resp.Posts[0].Slug)
}

func TestHealth_UsesRootPath(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","version":"1.2.0"}`))
	})

	resp, err := gw.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
}

func TestContextCancellation(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gw.GetHospitals(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
