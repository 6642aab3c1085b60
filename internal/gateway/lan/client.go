// Package lan implements the persistence gateway against the LAN HTTP API
// served by cmd/server.
package lan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/gateway"
	"studydesk/backend/internal/model"
)

const defaultTimeout = 10 * time.Second

var (
	_ gateway.Gateway = (*Client)(nil)
	_ focus.Store     = (*Client)(nil)
)

type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	token    string
	clientID string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithToken reuses an existing session token instead of opening a new one.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientID is the session id assigned by the server, empty until a session
// has been opened.
func (c *Client) ClientID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientID
}

func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	var out struct {
		Token    string `json:"token"`
		ClientID string `json:"client_id"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/sessions", nil, "", nil, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	c.clientID = out.ClientID
	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.session(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, query, token, body, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError turns the server's error envelope back into an APIError.
func decodeError(resp *http.Response) error {
	var envelope struct {
		Error *apperrors.APIError `json:"error"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == nil || envelope.Error.Code == "" {
		message := strings.TrimSpace(string(data))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return apperrors.New(resp.StatusCode, "http_error", message)
	}
	envelope.Error.Status = resp.StatusCode
	return envelope.Error
}

func (c *Client) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	var out struct {
		Task *model.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, task, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) ListTasks(ctx context.Context, date string) ([]model.Task, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var out struct {
		Task *model.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	var out struct {
		Task *model.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) CreateFocusRun(ctx context.Context, payload model.StartFocusRunPayload) (*model.FocusRun, error) {
	var out struct {
		Run *model.FocusRun `json:"run"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/focus/runs/start", nil, payload, &out); err != nil {
		return nil, err
	}
	return out.Run, nil
}

func (c *Client) FinishFocusRun(ctx context.Context, id string, payload model.FinishFocusRunPayload) (*model.FocusRun, error) {
	var out struct {
		Run *model.FocusRun `json:"run"`
	}
	path := "/api/focus/runs/" + url.PathEscape(id) + "/finish"
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return out.Run, nil
}

func (c *Client) ListFocusRuns(ctx context.Context, q model.FocusRunQuery) ([]model.FocusRun, error) {
	query := url.Values{}
	setIf(query, "start_date", q.StartDate)
	setIf(query, "end_date", q.EndDate)
	setIf(query, "status", q.Status)
	var out struct {
		Runs []model.FocusRun `json:"runs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/focus/runs", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}

func (c *Client) GetFocusStats(ctx context.Context, q model.FocusStatsQuery) (*model.FocusStatsResult, error) {
	query := url.Values{}
	setIf(query, "start_date", q.StartDate)
	setIf(query, "end_date", q.EndDate)
	setIf(query, "dimension", q.Dimension)
	var out struct {
		Stats *model.FocusStatsResult `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/focus/stats", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

func (c *Client) ListFocusTemplates(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, error) {
	query := url.Values{}
	if includeArchived {
		query.Set("include_archived", "1")
	}
	var out struct {
		Templates []model.FocusTemplate `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/focus/templates", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

func (c *Client) GetFocusTemplate(ctx context.Context, id string) (*model.FocusTemplate, error) {
	var out struct {
		Template *model.FocusTemplate `json:"template"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/focus/templates/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

func (c *Client) CreateFocusTemplate(ctx context.Context, input model.FocusTemplateInput) (*model.FocusTemplate, error) {
	var out struct {
		Template *model.FocusTemplate `json:"template"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/focus/templates", nil, input, &out); err != nil {
		return nil, err
	}
	return out.Template, nil
}

func (c *Client) ArchiveFocusTemplate(ctx context.Context, id string) error {
	path := "/api/focus/templates/" + url.PathEscape(id) + "/archive"
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

func (c *Client) CreateQuestion(ctx context.Context, input model.QuizQuestionInput) (*model.QuizQuestion, error) {
	var out struct {
		Question *model.QuizQuestion `json:"question"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/quiz", nil, input, &out); err != nil {
		return nil, err
	}
	return out.Question, nil
}

func (c *Client) GetDueQuestions(ctx context.Context, subject string) ([]model.QuizQuestion, error) {
	query := url.Values{}
	setIf(query, "subject", subject)
	var out struct {
		Questions []model.QuizQuestion `json:"questions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/quiz/due", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) AnswerQuestion(ctx context.Context, id string, isCorrect bool) (*model.QuizQuestion, error) {
	var out struct {
		Question *model.QuizQuestion `json:"question"`
	}
	body := map[string]bool{"is_correct": isCorrect}
	path := "/api/quiz/" + url.PathEscape(id) + "/answer"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Question, nil
}

func (c *Client) CreateWrongQuestion(ctx context.Context, input model.WrongQuestionInput) (*model.WrongQuestion, error) {
	var out struct {
		WrongQuestion *model.WrongQuestion `json:"wrong_question"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/wrong-questions", nil, input, &out); err != nil {
		return nil, err
	}
	return out.WrongQuestion, nil
}

func (c *Client) ListWrongQuestions(ctx context.Context, filter model.WrongQuestionFilter) ([]model.WrongQuestion, error) {
	query := url.Values{}
	if filter.Archived {
		query.Set("archived", "1")
	}
	setIf(query, "subject", filter.Subject)
	var out struct {
		WrongQuestions []model.WrongQuestion `json:"wrong_questions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wrong-questions", query, nil, &out); err != nil {
		return nil, err
	}
	return out.WrongQuestions, nil
}

func (c *Client) ArchiveWrongQuestion(ctx context.Context, id string) error {
	path := "/api/wrong-questions/" + url.PathEscape(id) + "/archive"
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

func (c *Client) DeleteWrongQuestion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/wrong-questions/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) GetWeeklyReviewItems(ctx context.Context, weekStart string) ([]model.WeeklyReviewItem, error) {
	query := url.Values{}
	setIf(query, "week_start", weekStart)
	var out struct {
		Items []model.WeeklyReviewItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/weekly-review/items", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddWeeklyReviewItem(ctx context.Context, wrongQuestionID string) (*model.WeeklyReviewItem, error) {
	var out struct {
		Item *model.WeeklyReviewItem `json:"item"`
	}
	body := map[string]string{"wrong_question_id": wrongQuestionID}
	if err := c.do(ctx, http.MethodPost, "/api/weekly-review/items", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) ToggleWeeklyReviewItemDone(ctx context.Context, itemID string, done bool) (*model.WeeklyReviewItem, error) {
	var out struct {
		Item *model.WeeklyReviewItem `json:"item"`
	}
	body := map[string]bool{"done": done}
	path := "/api/weekly-review/items/" + url.PathEscape(itemID) + "/toggle"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) CarryWeeklyReviewItemsToNextWeek(ctx context.Context, itemIDs []string, fromWeekStart string) ([]model.WeeklyReviewItem, error) {
	var out struct {
		Items []model.WeeklyReviewItem `json:"items"`
	}
	body := struct {
		ItemIDs       []string `json:"item_ids"`
		FromWeekStart string   `json:"from_week_start"`
	}{ItemIDs: itemIDs, FromWeekStart: fromWeekStart}
	if err := c.do(ctx, http.MethodPost, "/api/weekly-review/carry", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
