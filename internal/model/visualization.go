package model

import "strings"

// Step 向导步骤
type Step int

const (
	StepProcedure  Step = 1
	StepQuestions  Step = 2
	StepUpload     Step = 3
	StepProcessing Step = 4
	StepResult     Step = 5
	StepPostOp     Step = 6
)

var stepNames = map[Step]string{
	StepProcedure:  "procedure",
	StepQuestions:  "questions",
	StepUpload:     "upload",
	StepProcessing: "processing",
	StepResult:     "result",
	StepPostOp:     "post_op",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// JobStatus 可视化任务状态
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// ParseJobStatus 将后端状态映射为任务状态
// 后端在处理中会返回 processing / queued 等值，统一视为 pending
func ParseJobStatus(s string) JobStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "succeeded", "success", "completed":
		return JobSucceeded
	case "failed", "error", "expired":
		return JobFailed
	default:
		return JobPending
	}
}

// VizQuestion 可视化问卷题目（只读）
type VizQuestion struct {
	ID      string            `json:"id"`
	Text    map[string]string `json:"text"`             // 语言代码 -> 题目文本
	Prompt  string            `json:"prompt,omitempty"` // 访客语言下的题目文本
	Type    string            `json:"type"`
	Options []string          `json:"options"`
}

// TextFor 返回指定语言的题目文本，缺失时回退英文
func (q VizQuestion) TextFor(lang string) string {
	if t := q.Text[lang]; t != "" {
		return t
	}
	return q.Text["en"]
}

// HasOption 判断选项是否合法
func (q VizQuestion) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// SplitOptions 解析竖线分隔的选项列表
func SplitOptions(raw string) []string {
	parts := strings.Split(raw, "|")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			options = append(options, p)
		}
	}
	return options
}

// VisualizationJob 一次可视化任务
type VisualizationJob struct {
	VizID             string            `json:"viz_id"`
	ProcedureCategory string            `json:"procedure_category"`
	Answers           map[string]string `json:"answers"`
	SourceImage       string            `json:"-"`
	Status            JobStatus         `json:"status"`
	OutputImageURL    string            `json:"output_image_url,omitempty"`
}

// WizardState 向导状态快照
type WizardState struct {
	Step           Step              `json:"step"`
	StepName       string            `json:"step_name"`
	Procedure      string            `json:"procedure,omitempty"`
	Questions      []VizQuestion     `json:"questions,omitempty"`
	Answers        map[string]string `json:"answers"`
	SourceImage    string            `json:"source_image,omitempty"`
	Job            *VisualizationJob `json:"job,omitempty"`
	ResultURL      string            `json:"result_url,omitempty"`
	Error          string            `json:"error,omitempty"`
	Busy           bool              `json:"busy"`
	RevealPosition float64           `json:"reveal_position"`
	PostOpScore    *float64          `json:"post_op_score,omitempty"`
	CanNext        bool              `json:"can_next"`
	CanGenerate    bool              `json:"can_generate"`
}
