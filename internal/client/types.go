package client

import (
	"strings"

	"github.com/thaiturk/portal-go/internal/model"
)

// ChatSessionResponse 创建聊天会话响应
type ChatSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
	Language  string `json:"language"`
}

// TokenUsage token 用量
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// ChatMessageResponse 聊天消息响应
type ChatMessageResponse struct {
	SessionID   string                   `json:"session_id"`
	MessageID   string                   `json:"message_id"`
	Response    string                   `json:"response"`
	ToolResults []map[string]interface{} `json:"tool_results,omitempty"`
	TokensUsed  TokenUsage               `json:"tokens_used"`
	Timestamp   string                   `json:"timestamp"`
}

// ChatHistoryResponse 聊天历史
type ChatHistoryResponse struct {
	SessionID string                   `json:"session_id"`
	Messages  []map[string]interface{} `json:"messages"`
	Total     int                      `json:"total"`
}

// VizQuestionDTO 后端返回的题目，每种语言一个字段
type VizQuestionDTO struct {
	ID         string `json:"id"`
	QuestionEN string `json:"question_en"`
	QuestionRU string `json:"question_ru,omitempty"`
	QuestionTR string `json:"question_tr,omitempty"`
	QuestionTH string `json:"question_th,omitempty"`
	QuestionAR string `json:"question_ar,omitempty"`
	QuestionZH string `json:"question_zh,omitempty"`
	Type       string `json:"type"`
	Options    string `json:"options"` // 竖线分隔
}

// ToModel 转换为领域模型
func (q VizQuestionDTO) ToModel() model.VizQuestion {
	text := make(map[string]string, 6)
	for lang, s := range map[string]string{
		"en": q.QuestionEN,
		"ru": q.QuestionRU,
		"tr": q.QuestionTR,
		"th": q.QuestionTH,
		"ar": q.QuestionAR,
		"zh": q.QuestionZH,
	} {
		if s = strings.TrimSpace(s); s != "" {
			text[lang] = s
		}
	}
	return model.VizQuestion{
		ID:      q.ID,
		Text:    text,
		Type:    q.Type,
		Options: model.SplitOptions(q.Options),
	}
}

// VizQuestionsResponse 问卷响应
type VizQuestionsResponse struct {
	Category  string           `json:"category"`
	Questions []VizQuestionDTO `json:"questions"`
}

// VizStartRequest 启动可视化请求
type VizStartRequest struct {
	ImageBase64       string            `json:"image_base64"`
	ProcedureCategory string            `json:"procedure_category"`
	Answers           map[string]string `json:"answers"`
}

// VizStartResponse 启动可视化响应
type VizStartResponse struct {
	VizID       string `json:"viz_id"`
	MeshyTaskID string `json:"meshy_task_id,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// VizStatusResponse 可视化状态响应
type VizStatusResponse struct {
	VizID             string  `json:"viz_id"`
	Status            string  `json:"status"`
	OutputImageURL    *string `json:"output_image_url"`
	ProcedureCategory string  `json:"procedure_category,omitempty"`
}

// VizPostOpResponse 术后对比响应
type VizPostOpResponse struct {
	VizID           string  `json:"viz_id"`
	SimilarityScore float64 `json:"similarity_score"`
	Message         string  `json:"message,omitempty"`
}

// MedicalIntakeRequest 医疗咨询表单
type MedicalIntakeRequest struct {
	FullName          string   `json:"full_name" binding:"required"`
	Phone             string   `json:"phone" binding:"required"`
	Language          string   `json:"language" binding:"required,oneof=ru en tr th ar zh"`
	ProcedureInterest string   `json:"procedure_interest" binding:"required"`
	Urgency           string   `json:"urgency" binding:"required,oneof=routine soon urgent emergency"`
	BudgetUSD         *float64 `json:"budget_usd,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	ReferralSource    string   `json:"referral_source,omitempty"`
	PhuketArrivalDate string   `json:"phuket_arrival_date,omitempty"`
}

// Hospital 合作医院
type Hospital struct {
	HospitalID          string   `json:"hospital_id"`
	Name                string   `json:"name"`
	City                string   `json:"city"`
	Country             string   `json:"country"`
	Specialties         []string `json:"specialties"`
	CommissionRate      float64  `json:"commission_rate"`
	ContactWhatsApp     *string  `json:"contact_whatsapp,omitempty"`
	AvgProcedureCostUSD *float64 `json:"avg_procedure_cost_usd,omitempty"`
	Rating              float64  `json:"rating"`
	Languages           []string `json:"languages"`
	JCIAccredited       bool     `json:"jci_accredited,omitempty"`
	Active              bool     `json:"active,omitempty"`
}

// HospitalsResponse 医院列表
type HospitalsResponse struct {
	Total     int        `json:"total"`
	Hospitals []Hospital `json:"hospitals"`
}

// ProceduresResponse 项目与价格
type ProceduresResponse struct {
	Categories []map[string]interface{} `json:"categories"`
}

// IntakeResponse 医疗咨询提交结果
type IntakeResponse struct {
	Success                   bool      `json:"success"`
	PatientID                 string    `json:"patient_id"`
	ProcedureCategory         string    `json:"procedure_category"`
	Message                   string    `json:"message"`
	MatchedHospital           *Hospital `json:"matched_hospital"`
	EstimatedProcedureCostUSD float64   `json:"estimated_procedure_cost_usd"`
	CommissionRatePct         string    `json:"commission_rate_pct"`
	CommissionUSD             float64   `json:"commission_usd"`
	NextSteps                 []string  `json:"next_steps"`
	CoordinatorMessage        string    `json:"coordinator_message"`
}

// TravelRequest 旅行需求表单
type TravelRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Language    string `json:"language,omitempty" binding:"omitempty,oneof=ru en tr th ar zh"`
	Destination string `json:"destination,omitempty"`
	CheckIn     string `json:"check_in,omitempty"`
	CheckOut    string `json:"check_out,omitempty"`
	Guests      int    `json:"guests,omitempty" binding:"omitempty,min=1,max=20"`
	Notes       string `json:"notes,omitempty"`
}

// TravelSuggestion 酒店建议
type TravelSuggestion struct {
	Name          string  `json:"name"`
	Stars         int     `json:"stars"`
	PriceNightUSD float64 `json:"price_night_usd"`
	Highlight     string  `json:"highlight"`
}

// TravelResponse 旅行需求结果
type TravelResponse struct {
	RequestID          string             `json:"request_id"`
	Status             string             `json:"status"`
	CoordinatorMessage string             `json:"coordinator_message"`
	Suggestions        []TravelSuggestion `json:"suggestions"`
	NextSteps          []string           `json:"next_steps"`
}

// Destination 目的地
type Destination struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

// DestinationsResponse 目的地列表
type DestinationsResponse struct {
	Destinations []Destination `json:"destinations"`
}

// BlogPost 博客文章
type BlogPost struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Body     string   `json:"body,omitempty"`
	Category string   `json:"category"`
	Featured bool     `json:"featured"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
	ReadTime int      `json:"read_time"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}

// BlogPostsResponse 博客分页列表
type BlogPostsResponse struct {
	Posts      []BlogPost `json:"posts"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

// BlogPostResponse 单篇博客
type BlogPostResponse struct {
	Post BlogPost `json:"post"`
}

// HealthResponse 后端健康状态
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
