package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// APIError 后端返回非 2xx
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// IsRateLimited 是否为 429 限流错误
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// GatewayClient 后端 API 网关客户端
// 不做重试，不设置单次超时，超时由调用方 context 控制
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGatewayClient 创建网关客户端，baseURL 形如 http://host:8000/api
func NewGatewayClient(baseURL string, logger *zap.Logger) *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// do 发送 JSON 请求并解析响应
func (c *GatewayClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doURL(ctx, method, c.baseURL+path, path, body, out)
}

func (c *GatewayClient) doURL(ctx context.Context, method, fullURL, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("调用后端接口", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("后端接口返回错误",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// StartChatSession 创建聊天会话
func (c *GatewayClient) StartChatSession(ctx context.Context, language string) (*ChatSessionResponse, error) {
	var out ChatSessionResponse
	body := map[string]string{"language": language}
	if err := c.do(ctx, http.MethodPost, "/chat/session", body, &out); err != nil {
		return nil, err
	}
	if out.SessionID == "" {
		return nil, fmt.Errorf("chat session response missing session_id")
	}
	return &out, nil
}

// SendChatMessage 发送聊天消息
func (c *GatewayClient) SendChatMessage(ctx context.Context, sessionID, message, language string) (*ChatMessageResponse, error) {
	var out ChatMessageResponse
	body := map[string]string{
		"session_id": sessionID,
		"message":    message,
		"language":   language,
	}
	if err := c.do(ctx, http.MethodPost, "/chat/message", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChatHistory 获取会话历史
func (c *GatewayClient) GetChatHistory(ctx context.Context, sessionID string) (*ChatHistoryResponse, error) {
	var out ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVisualizationQuestions 获取项目问卷
func (c *GatewayClient) GetVisualizationQuestions(ctx context.Context, category string) (*VizQuestionsResponse, error) {
	var out VizQuestionsResponse
	body := map[string]string{"category": category}
	if err := c.do(ctx, http.MethodPost, "/meshy/questions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartVisualization 启动可视化任务
func (c *GatewayClient) StartVisualization(ctx context.Context, imageBase64, category string, answers map[string]string) (*VizStartResponse, error) {
	var out VizStartResponse
	body := VizStartRequest{
		ImageBase64:       imageBase64,
		ProcedureCategory: category,
		Answers:           answers,
	}
	if err := c.do(ctx, http.MethodPost, "/meshy/visualize", body, &out); err != nil {
		return nil, err
	}
	if out.VizID == "" {
		return nil, fmt.Errorf("visualize response missing viz_id")
	}
	return &out, nil
}

// CheckVisualizationStatus 查询可视化状态
func (c *GatewayClient) CheckVisualizationStatus(ctx context.Context, vizID string) (*VizStatusResponse, error) {
	var out VizStatusResponse
	if err := c.do(ctx, http.MethodGet, "/meshy/status/"+url.PathEscape(vizID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitPostOpPhoto 提交术后照片对比
func (c *GatewayClient) SubmitPostOpPhoto(ctx context.Context, vizID, imageBase64 string) (*VizPostOpResponse, error) {
	var out VizPostOpResponse
	body := map[string]string{"viz_id": vizID, "image_base64": imageBase64}
	if err := c.do(ctx, http.MethodPost, "/meshy/post-op", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitMedicalIntake 提交医疗咨询表单
func (c *GatewayClient) SubmitMedicalIntake(ctx context.Context, body MedicalIntakeRequest) (*IntakeResponse, error) {
	var out IntakeResponse
	if err := c.do(ctx, http.MethodPost, "/medical/intake", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitTravelRequest 提交旅行需求
func (c *GatewayClient) SubmitTravelRequest(ctx context.Context, body TravelRequest) (*TravelResponse, error) {
	var out TravelResponse
	if err := c.do(ctx, http.MethodPost, "/travel/options", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHospitals 合作医院列表
func (c *GatewayClient) GetHospitals(ctx context.Context) (*HospitalsResponse, error) {
	var out HospitalsResponse
	if err := c.do(ctx, http.MethodGet, "/medical/hospitals", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProcedures 项目与价格
func (c *GatewayClient) GetProcedures(ctx context.Context) (*ProceduresResponse, error) {
	var out ProceduresResponse
	if err := c.do(ctx, http.MethodGet, "/medical/procedures", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDestinations 旅行目的地
func (c *GatewayClient) GetDestinations(ctx context.Context) (*DestinationsResponse, error) {
	var out DestinationsResponse
	if err := c.do(ctx, http.MethodGet, "/travel/destinations", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBlogPosts 博客列表，category 为空表示全部
func (c *GatewayClient) GetBlogPosts(ctx context.Context, language, category string, page, perPage int) (*BlogPostsResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	params := url.Values{}
	params.Set("language", language)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if category != "" {
		params.Set("category", category)
	}

	var out BlogPostsResponse
	if err := c.do(ctx, http.MethodGet, "/blog/posts?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBlogPost 单篇博客
func (c *GatewayClient) GetBlogPost(ctx context.Context, slug, language string) (*BlogPostResponse, error) {
	var out BlogPostResponse
	path := "/blog/posts/" + url.PathEscape(slug) + "?language=" + url.QueryEscape(language)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health 后端健康检查，后端在根路径暴露 /health（不在 /api 下）
func (c *GatewayClient) Health(ctx context.Context) (*HealthResponse, error) {
	root := strings.TrimSuffix(c.baseURL, "/api")
	var out HealthResponse
	if err := c.doURL(ctx, http.MethodGet, root+"/health", "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
