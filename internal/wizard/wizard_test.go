package wizard

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/client"
	"github.com/thaiturk/portal-go/internal/imageproc"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/model"
	"github.com/thaiturk/portal-go/internal/poller"
)

type fixedLang locale.Language

func (l fixedLang) Current() locale.Language { return locale.Language(l) }

type fakeGateway struct {
	mu          sync.Mutex
	questionErr error
	startFn     func(ctx context.Context) (*client.VizStartResponse, error)
	statusFn    func(ctx context.Context, attempt int) (*client.VizStatusResponse, error)
	postOpErr   error
	statusCalls int
	postOpCalls int
}

func (f *fakeGateway) GetVisualizationQuestions(ctx context.Context, category string) (*client.VizQuestionsResponse, error) {
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	return &client.VizQuestionsResponse{
		Category: category,
		Questions: []client.VizQuestionDTO{
			{ID: "norwood", QuestionEN: "Hair loss stage?", QuestionRU: "Стадия облысения?", Type: "single", Options: "1-2|3-4|5-7"},
			{ID: "density", QuestionEN: "Desired density?", Type: "single", Options: "natural|dense"},
		},
	}, nil
}

func (f *fakeGateway) StartVisualization(ctx context.Context, imageBase64, category string, answers map[string]string) (*client.VizStartResponse, error) {
	if f.startFn != nil {
		return f.startFn(ctx)
	}
	return &client.VizStartResponse{VizID: "VIZ-1", Status: "processing"}, nil
}

func (f *fakeGateway) CheckVisualizationStatus(ctx context.Context, vizID string) (*client.VizStatusResponse, error) {
	f.mu.Lock()
	f.statusCalls++
	attempt := f.statusCalls
	fn := f.statusFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, attempt)
	}
	return &client.VizStatusResponse{VizID: vizID, Status: "processing"}, nil
}

func (f *fakeGateway) SubmitPostOpPhoto(ctx context.Context, vizID, imageBase64 string) (*client.VizPostOpResponse, error) {
	f.mu.Lock()
	f.postOpCalls++
	f.mu.Unlock()
	if f.postOpErr != nil {
		return nil, f.postOpErr
	}
	return &client.VizPostOpResponse{VizID: vizID, SimilarityScore: 0.91}, nil
}

func (f *fakeGateway) statusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func strPtr(s string) *string { return &s }

func testConfig() Config {
	return Config{
		Poll:  poller.Config{Interval: time.Millisecond, MaxAttempts: 60},
		Image: imageproc.DefaultOptions(),
	}
}

func photo(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(200, 150, color.NRGBA{R: 10, G: 200, B: 30, A: 255})))
	return buf.Bytes()
}

// toUpload 走到第 3 步
func toUpload(t *testing.T, w *Wizard) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.SelectProcedure(ctx, "hair_transplant"))
	require.NoError(t, w.Answer("norwood", "3-4"))
	require.NoError(t, w.Next())
	require.Equal(t, model.StepUpload, w.Snapshot().Step)
}

// toProcessing 走到第 4 步并开始轮询
func toProcessing(t *testing.T, w *Wizard) {
	t.Helper()
	toUpload(t, w)
	require.NoError(t, w.UploadPhoto(photo(t), "image/png"))
	require.True(t, w.Snapshot().CanGenerate)
	require.NoError(t, w.Generate(context.Background()))
}

func waitStep(t *testing.T, w *Wizard, step model.Step) {
	t.Helper()
	require.Eventually(t, func() bool { return w.Snapshot().Step == step }, 3*time.Second, time.Millisecond)
}

func TestSelectProcedure_LoadsQuestions(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	require.NoError(t, w.SelectProcedure(context.Background(), "hair_transplant"))

	s := w.Snapshot()
	require.Equal(t, model.StepQuestions, s.Step)
	require.Equal(t, "questions", s.StepName)
	require.Equal(t, "hair_transplant", s.Procedure)
	require.Len(t, s.Questions, 2)
	require.Equal(t, "Hair loss stage?", s.Questions[0].Prompt)
	require.Empty(t, s.Answers)
	require.False(t, s.CanNext)
}

func TestSnapshot_QuestionPromptFollowsLanguage(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.Russian), testConfig(), zap.NewNop())
	require.NoError(t, w.SelectProcedure(context.Background(), "hair_transplant"))

	s := w.Snapshot()
	require.Equal(t, "Стадия облысения?", s.Questions[0].Prompt)
	// 没有俄语文本时回退英文
	require.Equal(t, "Desired density?", s.Questions[1].Prompt)
}

func TestSelectProcedure_Unknown(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	err := w.SelectProcedure(context.Background(), "appendectomy")
	require.ErrorIs(t, err, ErrUnknownProcedure)

	s := w.Snapshot()
	require.Equal(t, model.StepProcedure, s.Step)
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizUnknownProcedure), s.Error)
}

func TestSelectProcedure_FetchFailureStaysOnStepOne(t *testing.T) {
	gw := &fakeGateway{questionErr: errors.New("backend down")}
	w := New(gw, fixedLang(locale.Russian), testConfig(), zap.NewNop())
	require.Error(t, w.SelectProcedure(context.Background(), "rhinoplasty"))

	s := w.Snapshot()
	require.Equal(t, model.StepProcedure, s.Step)
	require.False(t, s.Busy)
	require.Equal(t, locale.Resolve(locale.Russian).T(locale.KeyVizError), s.Error)

	gw.questionErr = nil
	require.NoError(t, w.SelectProcedure(context.Background(), "rhinoplasty"))
	require.Empty(t, w.Snapshot().Error)
}

func TestAnswerAndNavigation(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	require.ErrorIs(t, w.Answer("norwood", "1-2"), ErrWrongStep)
	require.NoError(t, w.SelectProcedure(context.Background(), "hair_transplant"))

	require.ErrorIs(t, w.Next(), ErrNoAnswers)
	require.ErrorIs(t, w.Answer("norwood", "8"), ErrInvalidOption)
	require.ErrorIs(t, w.Answer("unknown", "1-2"), ErrUnknownQuestion)

	require.NoError(t, w.Answer("norwood", "1-2"))
	require.NoError(t, w.Answer("norwood", "5-7"))
	require.Equal(t, map[string]string{"norwood": "5-7"}, w.Snapshot().Answers)
	require.True(t, w.Snapshot().CanNext)

	// 只回答一题也可以进入下一步
	require.NoError(t, w.Next())
	require.Equal(t, model.StepUpload, w.Snapshot().Step)

	require.NoError(t, w.Back())
	s := w.Snapshot()
	require.Equal(t, model.StepQuestions, s.Step)
	require.Equal(t, "5-7", s.Answers["norwood"])

	require.NoError(t, w.Back())
	s = w.Snapshot()
	require.Equal(t, model.StepProcedure, s.Step)
	require.Equal(t, "hair_transplant", s.Procedure)

	require.ErrorIs(t, w.Back(), ErrWrongStep)
}

func TestUpload_TooLargeKeepsAnswers(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	toUpload(t, w)

	err := w.UploadPhoto(make([]byte, 12<<20), "image/jpeg")
	require.ErrorIs(t, err, imageproc.ErrTooLarge)

	s := w.Snapshot()
	require.Equal(t, model.StepUpload, s.Step)
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizFileTooLarge), s.Error)
	require.Equal(t, map[string]string{"norwood": "3-4"}, s.Answers)
	require.Empty(t, s.SourceImage)
	require.False(t, s.CanGenerate)
}

func TestUpload_AcceptsWebP(t *testing.T) {
	data, err := os.ReadFile("testdata/swatch.webp")
	require.NoError(t, err)

	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	toUpload(t, w)

	require.NoError(t, w.UploadPhoto(data, "image/webp"))
	s := w.Snapshot()
	require.Equal(t, model.StepUpload, s.Step)
	require.Empty(t, s.Error)
	require.True(t, strings.HasPrefix(s.SourceImage, "data:image/jpeg;base64,"))
	require.True(t, s.CanGenerate)
}

func TestUpload_NotAnImage(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.Turkish), testConfig(), zap.NewNop())
	toUpload(t, w)

	err := w.UploadPhoto([]byte("just some text"), "text/plain")
	require.ErrorIs(t, err, imageproc.ErrInvalidFormat)
	require.Equal(t, locale.Resolve(locale.Turkish).T(locale.KeyVizInvalidFormat), w.Snapshot().Error)
}

func TestGenerate_RequiresImage(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	toUpload(t, w)
	require.ErrorIs(t, w.Generate(context.Background()), ErrNoImage)
}

func TestGenerate_EntersProcessingBeforeResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{startFn: func(ctx context.Context) (*client.VizStartResponse, error) {
		close(entered)
		<-release
		return nil, errors.New("boom")
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toUpload(t, w)
	require.NoError(t, w.UploadPhoto(photo(t), "image/png"))

	done := make(chan error, 1)
	go func() { done <- w.Generate(context.Background()) }()
	<-entered

	s := w.Snapshot()
	require.Equal(t, model.StepProcessing, s.Step)
	require.True(t, s.Busy)

	close(release)
	require.Error(t, <-done)

	s = w.Snapshot()
	require.Equal(t, model.StepUpload, s.Step)
	require.False(t, s.Busy)
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizError), s.Error)
	require.NotEmpty(t, s.SourceImage)
}

func TestGenerate_RateLimited(t *testing.T) {
	gw := &fakeGateway{startFn: func(ctx context.Context) (*client.VizStartResponse, error) {
		return nil, &client.APIError{StatusCode: http.StatusTooManyRequests, Path: "/meshy/visualize"}
	}}
	w := New(gw, fixedLang(locale.Arabic), testConfig(), zap.NewNop())
	toUpload(t, w)
	require.NoError(t, w.UploadPhoto(photo(t), "image/png"))

	require.Error(t, w.Generate(context.Background()))
	s := w.Snapshot()
	require.Equal(t, model.StepUpload, s.Step)
	require.Equal(t, locale.Resolve(locale.Arabic).T(locale.KeyVizDailyLimit), s.Error)
}

func TestPolling_SucceedsOnLastAttempt(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		if attempt < 60 {
			return &client.VizStatusResponse{Status: "processing"}, nil
		}
		return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/after.jpg")}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())

	var mu sync.Mutex
	resultTransitions := 0
	last := model.StepProcedure
	w.SetObserver(func(s model.WizardState) {
		mu.Lock()
		defer mu.Unlock()
		if s.Step == model.StepResult && last != model.StepResult {
			resultTransitions++
		}
		last = s.Step
	})

	toProcessing(t, w)
	waitStep(t, w, model.StepResult)
	require.Eventually(t, func() bool { return !w.Polling() }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	s := w.Snapshot()
	require.Equal(t, "https://cdn.example.com/after.jpg", s.ResultURL)
	require.Equal(t, model.JobSucceeded, s.Job.Status)
	require.False(t, s.Busy)
	require.Equal(t, 60, gw.statusCount())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, resultTransitions)
}

func TestPolling_TimesOutAfterMaxAttempts(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		if attempt <= 60 {
			return &client.VizStatusResponse{Status: "pending"}, nil
		}
		return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/too-late.jpg")}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)

	require.Eventually(t, func() bool {
		s := w.Snapshot()
		return s.Step == model.StepUpload && s.Error != ""
	}, 3*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	s := w.Snapshot()
	require.Equal(t, model.StepUpload, s.Step)
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizTimeout), s.Error)
	require.False(t, s.Busy)
	require.Empty(t, s.ResultURL)
	require.Equal(t, 60, gw.statusCount())
}

func TestPolling_FailedStatus(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		if attempt == 3 {
			return &client.VizStatusResponse{Status: "failed"}, nil
		}
		return &client.VizStatusResponse{Status: "processing"}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)

	waitStep(t, w, model.StepUpload)
	s := w.Snapshot()
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizError), s.Error)
	require.Equal(t, model.JobFailed, s.Job.Status)
	require.Equal(t, 3, gw.statusCount())
}

func TestPolling_RequestErrorsKeepPolling(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		if attempt < 5 {
			return nil, errors.New("connection reset")
		}
		return &client.VizStatusResponse{Status: "completed", OutputImageURL: strPtr("https://cdn.example.com/ok.jpg")}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)

	waitStep(t, w, model.StepResult)
	require.Equal(t, 5, gw.statusCount())
}

func TestPolling_RequestErrorOnLastAttempt(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		return nil, errors.New("bad gateway")
	}}
	cfg := testConfig()
	cfg.Poll.MaxAttempts = 4
	w := New(gw, fixedLang(locale.English), cfg, zap.NewNop())
	toProcessing(t, w)

	require.Eventually(t, func() bool {
		s := w.Snapshot()
		return s.Step == model.StepUpload && s.Error != ""
	}, 3*time.Second, time.Millisecond)
	require.Equal(t, locale.Resolve(locale.English).T(locale.KeyVizError), w.Snapshot().Error)
	require.Equal(t, 4, gw.statusCount())
}

func TestReset_MidPollBlocksStaleUpdates(t *testing.T) {
	reached := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		if attempt == 10 {
			close(reached)
			<-release
			return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/stale.jpg")}, nil
		}
		return &client.VizStatusResponse{Status: "processing"}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)

	<-reached
	w.Reset()

	var mu sync.Mutex
	changes := 0
	w.SetObserver(func(model.WizardState) {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	close(release)
	time.Sleep(50 * time.Millisecond)

	s := w.Snapshot()
	require.Equal(t, model.StepProcedure, s.Step)
	require.Empty(t, s.ResultURL)
	require.Nil(t, s.Job)
	require.Empty(t, s.Answers)
	require.False(t, s.Busy)
	require.False(t, w.Polling())
	require.Equal(t, 10, gw.statusCount())

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, changes)
}

func TestReveal_Clamped(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/r.jpg")}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())

	_, err := w.Reveal(10, 0, 100)
	require.ErrorIs(t, err, ErrWrongStep)

	toProcessing(t, w)
	waitStep(t, w, model.StepResult)

	pos, err := w.Reveal(150, 100, 200)
	require.NoError(t, err)
	require.InDelta(t, 25, pos, 1e-9)

	pos, _ = w.Reveal(-40, 100, 200)
	require.Equal(t, 0.0, pos)

	pos, _ = w.Reveal(900, 100, 200)
	require.Equal(t, 100.0, pos)
	require.Equal(t, 100.0, w.Snapshot().RevealPosition)

	_, err = w.Reveal(10, 0, 0)
	require.ErrorIs(t, err, ErrInvalidBounds)
}

func TestSubmitPostOp_Once(t *testing.T) {
	gw := &fakeGateway{statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
		return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/r.jpg")}, nil
	}}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)
	waitStep(t, w, model.StepResult)

	require.NoError(t, w.SubmitPostOp(context.Background(), photo(t), "image/png"))
	s := w.Snapshot()
	require.Equal(t, model.StepPostOp, s.Step)
	require.NotNil(t, s.PostOpScore)
	require.InDelta(t, 0.91, *s.PostOpScore, 1e-9)

	require.ErrorIs(t, w.SubmitPostOp(context.Background(), photo(t), "image/png"), ErrPostOpDone)
	require.ErrorIs(t, w.Back(), ErrWrongStep)

	w.Reset()
	s = w.Snapshot()
	require.Equal(t, model.StepProcedure, s.Step)
	require.Nil(t, s.PostOpScore)
}

func TestSubmitPostOp_FailureStaysOnResult(t *testing.T) {
	gw := &fakeGateway{
		statusFn: func(ctx context.Context, attempt int) (*client.VizStatusResponse, error) {
			return &client.VizStatusResponse{Status: "succeeded", OutputImageURL: strPtr("https://cdn.example.com/r.jpg")}, nil
		},
		postOpErr: errors.New("backend error"),
	}
	w := New(gw, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)
	waitStep(t, w, model.StepResult)

	require.Error(t, w.SubmitPostOp(context.Background(), photo(t), "image/png"))
	s := w.Snapshot()
	require.Equal(t, model.StepResult, s.Step)
	require.False(t, s.Busy)
	require.NotEmpty(t, s.Error)
	require.Nil(t, s.PostOpScore)
}

func TestClose_StopsPolling(t *testing.T) {
	w := New(&fakeGateway{}, fixedLang(locale.English), testConfig(), zap.NewNop())
	toProcessing(t, w)
	w.Close()
	require.Eventually(t, func() bool { return !w.Polling() }, time.Second, time.Millisecond)
	n := w.gw.(*fakeGateway).statusCount()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, n, w.gw.(*fakeGateway).statusCount())
}
