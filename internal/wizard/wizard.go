package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/client"
	"github.com/thaiturk/portal-go/internal/imageproc"
	"github.com/thaiturk/portal-go/internal/locale"
	"github.com/thaiturk/portal-go/internal/model"
	"github.com/thaiturk/portal-go/internal/poller"
)

var (
	ErrUnknownProcedure = errors.New("wizard: unknown procedure")
	ErrWrongStep        = errors.New("wizard: operation not allowed on current step")
	ErrBusy             = errors.New("wizard: request in flight")
	ErrUnknownQuestion  = errors.New("wizard: unknown question")
	ErrInvalidOption    = errors.New("wizard: option not offered for question")
	ErrNoAnswers        = errors.New("wizard: no answers recorded")
	ErrNoImage          = errors.New("wizard: no source image")
	ErrPostOpDone       = errors.New("wizard: post-op comparison already submitted")
	ErrInvalidBounds    = errors.New("wizard: invalid reveal container")
)

// Procedures 可视化支持的项目
var Procedures = []string{
	"hair_transplant",
	"rhinoplasty",
	"dental",
	"breast_augmentation",
	"facelift",
	"liposuction",
	"bbl",
	"bichectomy",
}

// IsProcedure 是否为支持的项目
func IsProcedure(id string) bool {
	for _, p := range Procedures {
		if p == id {
			return true
		}
	}
	return false
}

// Gateway 向导所需的后端接口
type Gateway interface {
	GetVisualizationQuestions(ctx context.Context, category string) (*client.VizQuestionsResponse, error)
	StartVisualization(ctx context.Context, imageBase64, category string, answers map[string]string) (*client.VizStartResponse, error)
	CheckVisualizationStatus(ctx context.Context, vizID string) (*client.VizStatusResponse, error)
	SubmitPostOpPhoto(ctx context.Context, vizID, imageBase64 string) (*client.VizPostOpResponse, error)
}

// LanguageSource 当前语言
type LanguageSource interface {
	Current() locale.Language
}

// Config 向导参数
type Config struct {
	Poll  poller.Config
	Image imageproc.Options
}

// Observer 状态变化回调
type Observer func(model.WizardState)

// Wizard 单个访客的可视化向导状态机
type Wizard struct {
	gw     Gateway
	lang   LanguageSource
	cfg    Config
	logger *zap.Logger

	// 轮询任务的根 context，Close 时取消
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	step        model.Step
	procedure   string
	questions   []model.VizQuestion
	answers     map[string]string
	sourceImage string
	job         *model.VisualizationJob
	resultURL   string
	errKey      locale.Key
	hasErr      bool
	busy        bool
	reveal      float64
	postOpScore *float64
	postOpDone  bool

	gen      int // 每次 Reset 递增，旧任务的结果据此丢弃
	task     *poller.Task
	observer Observer
}

// New 创建向导，初始为第 1 步
func New(gw Gateway, lang LanguageSource, cfg Config, logger *zap.Logger) *Wizard {
	ctx, cancel := context.WithCancel(context.Background())
	return &Wizard{
		gw:      gw,
		lang:    lang,
		cfg:     cfg,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		step:    model.StepProcedure,
		answers: make(map[string]string),
		reveal:  50,
	}
}

// SetObserver 设置状态变化回调
func (w *Wizard) SetObserver(o Observer) {
	w.mu.Lock()
	w.observer = o
	w.mu.Unlock()
}

// SelectProcedure 选择项目并拉取问卷
func (w *Wizard) SelectProcedure(ctx context.Context, procedure string) error {
	w.mu.Lock()
	if w.step != model.StepProcedure {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if !IsProcedure(procedure) {
		w.setErrLocked(locale.KeyVizUnknownProcedure)
		w.mu.Unlock()
		w.notify()
		return fmt.Errorf("%w: %q", ErrUnknownProcedure, procedure)
	}
	w.busy = true
	w.hasErr = false
	gen := w.gen
	w.mu.Unlock()
	w.notify()

	resp, err := w.gw.GetVisualizationQuestions(ctx, procedure)

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	w.busy = false
	if err != nil {
		w.setErrLocked(locale.KeyVizError)
		w.mu.Unlock()
		w.logger.Error("获取问卷失败", zap.String("procedure", procedure), zap.Error(err))
		w.notify()
		return fmt.Errorf("获取问卷失败: %w", err)
	}

	questions := make([]model.VizQuestion, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		questions = append(questions, q.ToModel())
	}
	w.procedure = procedure
	w.questions = questions
	w.answers = make(map[string]string)
	w.step = model.StepQuestions
	w.mu.Unlock()

	w.logger.Info("问卷已加载", zap.String("procedure", procedure), zap.Int("questions", len(questions)))
	w.notify()
	return nil
}

// Answer 记录某题的选项，覆盖之前的选择
func (w *Wizard) Answer(questionID, option string) error {
	w.mu.Lock()
	if w.step != model.StepQuestions {
		w.mu.Unlock()
		return ErrWrongStep
	}
	q, ok := w.questionLocked(questionID)
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if !q.HasOption(option) {
		w.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}
	w.answers[questionID] = option
	w.mu.Unlock()
	w.notify()
	return nil
}

// Next 第 2 步进入第 3 步，至少回答一题即可
func (w *Wizard) Next() error {
	w.mu.Lock()
	if w.step != model.StepQuestions {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if len(w.answers) == 0 {
		w.mu.Unlock()
		return ErrNoAnswers
	}
	w.step = model.StepUpload
	w.hasErr = false
	w.mu.Unlock()
	w.notify()
	return nil
}

// Back 返回上一步，不清除任何已填写的数据
// 结果页和术后对比页只能通过 Reset 离开
func (w *Wizard) Back() error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	switch w.step {
	case model.StepQuestions:
		w.step = model.StepProcedure
	case model.StepUpload:
		w.step = model.StepQuestions
	default:
		w.mu.Unlock()
		return ErrWrongStep
	}
	w.hasErr = false
	w.mu.Unlock()
	w.notify()
	return nil
}

// UploadPhoto 校验并缩放照片，作为源图保存
func (w *Wizard) UploadPhoto(data []byte, mediaType string) error {
	w.mu.Lock()
	if w.step != model.StepUpload {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	gen := w.gen
	w.mu.Unlock()

	res, err := imageproc.Process(data, mediaType, w.cfg.Image)

	w.mu.Lock()
	if w.gen != gen || w.step != model.StepUpload {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if err != nil {
		w.setErrLocked(uploadErrorKey(err))
		w.mu.Unlock()
		w.logger.Warn("照片校验失败", zap.Int("bytes", len(data)), zap.Error(err))
		w.notify()
		return err
	}
	w.sourceImage = res.DataURL
	w.hasErr = false
	w.mu.Unlock()

	w.logger.Debug("照片已缩放", zap.Int("width", res.Width), zap.Int("height", res.Height))
	w.notify()
	return nil
}

func uploadErrorKey(err error) locale.Key {
	switch {
	case errors.Is(err, imageproc.ErrTooLarge):
		return locale.KeyVizFileTooLarge
	case errors.Is(err, imageproc.ErrInvalidFormat):
		return locale.KeyVizInvalidFormat
	default:
		return locale.KeyVizError
	}
}

// Generate 提交可视化任务
// 调用前先进入第 4 步，失败时回到第 3 步；成功后启动轮询并立即返回
func (w *Wizard) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.step != model.StepUpload {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.sourceImage == "" {
		w.mu.Unlock()
		return ErrNoImage
	}
	w.step = model.StepProcessing
	w.busy = true
	w.hasErr = false
	gen := w.gen
	procedure := w.procedure
	image := w.sourceImage
	answers := copyAnswers(w.answers)
	w.mu.Unlock()
	w.notify()

	resp, err := w.gw.StartVisualization(ctx, image, procedure, answers)

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		key := locale.KeyVizError
		if client.IsRateLimited(err) {
			key = locale.KeyVizDailyLimit
		}
		w.failLocked(key)
		w.mu.Unlock()
		w.logger.Error("启动可视化失败", zap.String("procedure", procedure), zap.Error(err))
		w.notify()
		return fmt.Errorf("启动可视化失败: %w", err)
	}

	w.job = &model.VisualizationJob{
		VizID:             resp.VizID,
		ProcedureCategory: procedure,
		Answers:           answers,
		SourceImage:       image,
		Status:            model.JobPending,
	}
	vizID := resp.VizID
	w.task = poller.Start(w.ctx, w.cfg.Poll,
		func(ctx context.Context, attempt int) bool { return w.check(ctx, gen, vizID, attempt) },
		func(ctx context.Context) { w.timeout(gen, vizID) },
	)
	w.mu.Unlock()

	w.logger.Info("可视化任务已提交", zap.String("vizId", vizID), zap.String("procedure", procedure))
	w.notify()
	return nil
}

// check 单次状态查询，返回 true 表示轮询结束
func (w *Wizard) check(ctx context.Context, gen int, vizID string, attempt int) bool {
	resp, err := w.gw.CheckVisualizationStatus(ctx, vizID)

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return true
	}

	if err != nil {
		if ctx.Err() != nil {
			w.mu.Unlock()
			return true
		}
		if attempt < w.cfg.Poll.MaxAttempts {
			w.mu.Unlock()
			w.logger.Warn("查询可视化状态失败，继续轮询",
				zap.String("vizId", vizID), zap.Int("attempt", attempt), zap.Error(err))
			return false
		}
		w.failLocked(locale.KeyVizError)
		w.mu.Unlock()
		w.logger.Error("查询可视化状态失败", zap.String("vizId", vizID), zap.Error(err))
		w.notify()
		return true
	}

	status := model.ParseJobStatus(resp.Status)
	switch {
	case status == model.JobSucceeded && resp.OutputImageURL != nil && *resp.OutputImageURL != "":
		w.job.Status = model.JobSucceeded
		w.job.OutputImageURL = *resp.OutputImageURL
		w.resultURL = *resp.OutputImageURL
		w.step = model.StepResult
		w.busy = false
		w.reveal = 50
		w.task = nil
		w.mu.Unlock()
		w.logger.Info("可视化完成", zap.String("vizId", vizID), zap.Int("attempt", attempt))
		w.notify()
		return true
	case status == model.JobFailed:
		w.job.Status = model.JobFailed
		w.failLocked(locale.KeyVizError)
		w.mu.Unlock()
		w.logger.Warn("可视化失败", zap.String("vizId", vizID), zap.String("status", resp.Status))
		w.notify()
		return true
	default:
		w.mu.Unlock()
		return false
	}
}

func (w *Wizard) timeout(gen int, vizID string) {
	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return
	}
	w.failLocked(locale.KeyVizTimeout)
	w.mu.Unlock()
	w.logger.Warn("可视化轮询超时", zap.String("vizId", vizID), zap.Int("attempts", w.cfg.Poll.MaxAttempts))
	w.notify()
}

// failLocked 回到第 3 步并显示错误
func (w *Wizard) failLocked(key locale.Key) {
	w.step = model.StepUpload
	w.busy = false
	w.setErrLocked(key)
	w.task = nil
}

// Reveal 根据指针位置计算对比滑块位置（百分比，限制在 0-100）
func (w *Wizard) Reveal(pointerX, containerLeft, containerWidth float64) (float64, error) {
	if containerWidth <= 0 {
		return 0, ErrInvalidBounds
	}
	w.mu.Lock()
	if w.step != model.StepResult && w.step != model.StepPostOp {
		w.mu.Unlock()
		return 0, ErrWrongStep
	}
	pos := (pointerX - containerLeft) / containerWidth * 100
	if pos < 0 {
		pos = 0
	} else if pos > 100 {
		pos = 100
	}
	w.reveal = pos
	w.mu.Unlock()
	w.notify()
	return pos, nil
}

// SubmitPostOp 上传术后照片获取相似度，每个任务只能成功提交一次
func (w *Wizard) SubmitPostOp(ctx context.Context, data []byte, mediaType string) error {
	w.mu.Lock()
	if w.postOpDone {
		w.mu.Unlock()
		return ErrPostOpDone
	}
	if w.step != model.StepResult {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	gen := w.gen
	vizID := w.job.VizID
	w.busy = true
	w.hasErr = false
	w.mu.Unlock()
	w.notify()

	res, err := imageproc.Process(data, mediaType, w.cfg.Image)
	if err != nil {
		w.mu.Lock()
		if w.gen == gen {
			w.busy = false
			w.setErrLocked(uploadErrorKey(err))
		}
		w.mu.Unlock()
		w.notify()
		return err
	}

	resp, err := w.gw.SubmitPostOpPhoto(ctx, vizID, res.DataURL)

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	w.busy = false
	if err != nil {
		w.setErrLocked(locale.KeyVizError)
		w.mu.Unlock()
		w.logger.Error("术后对比失败", zap.String("vizId", vizID), zap.Error(err))
		w.notify()
		return fmt.Errorf("术后对比失败: %w", err)
	}
	score := resp.SimilarityScore
	w.postOpScore = &score
	w.postOpDone = true
	w.step = model.StepPostOp
	w.mu.Unlock()

	w.logger.Info("术后对比完成", zap.String("vizId", vizID), zap.Float64("score", score))
	w.notify()
	return nil
}

// Reset 停止轮询并清空全部状态，回到第 1 步
func (w *Wizard) Reset() {
	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()
	w.notify()
}

func (w *Wizard) resetLocked() {
	w.gen++
	if w.task != nil {
		w.task.Stop()
		w.task = nil
	}
	w.step = model.StepProcedure
	w.procedure = ""
	w.questions = nil
	w.answers = make(map[string]string)
	w.sourceImage = ""
	w.job = nil
	w.resultURL = ""
	w.hasErr = false
	w.busy = false
	w.reveal = 50
	w.postOpScore = nil
	w.postOpDone = false
}

// Close 访客离开时释放轮询任务
func (w *Wizard) Close() {
	w.mu.Lock()
	w.gen++
	if w.task != nil {
		w.task.Stop()
		w.task = nil
	}
	w.mu.Unlock()
	w.cancel()
}

// Polling 是否有活跃的轮询任务
func (w *Wizard) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.task != nil && w.task.Alive()
}

// Snapshot 当前状态的副本
func (w *Wizard) Snapshot() model.WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() model.WizardState {
	s := model.WizardState{
		Step:           w.step,
		StepName:       w.step.String(),
		Procedure:      w.procedure,
		Answers:        copyAnswers(w.answers),
		SourceImage:    w.sourceImage,
		ResultURL:      w.resultURL,
		Busy:           w.busy,
		RevealPosition: w.reveal,
		CanNext:        w.step == model.StepQuestions && len(w.answers) > 0,
		CanGenerate:    w.step == model.StepUpload && w.sourceImage != "" && !w.busy,
	}
	if len(w.questions) > 0 {
		lang := string(w.lang.Current())
		s.Questions = make([]model.VizQuestion, len(w.questions))
		for i, q := range w.questions {
			q.Prompt = q.TextFor(lang)
			s.Questions[i] = q
		}
	}
	if w.job != nil {
		job := *w.job
		job.Answers = copyAnswers(w.job.Answers)
		s.Job = &job
	}
	if w.postOpScore != nil {
		score := *w.postOpScore
		s.PostOpScore = &score
	}
	if w.hasErr {
		s.Error = locale.Resolve(w.lang.Current()).T(w.errKey)
	}
	return s
}

func (w *Wizard) notify() {
	w.mu.Lock()
	o := w.observer
	var snap model.WizardState
	if o != nil {
		snap = w.snapshotLocked()
	}
	w.mu.Unlock()
	if o != nil {
		o(snap)
	}
}

func (w *Wizard) setErrLocked(key locale.Key) {
	w.errKey = key
	w.hasErr = true
}

func (w *Wizard) questionLocked(id string) (model.VizQuestion, bool) {
	for _, q := range w.questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.VizQuestion{}, false
}

func copyAnswers(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
