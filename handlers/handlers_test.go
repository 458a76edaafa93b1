package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"clauselens-backend/embedding"
	"clauselens-backend/index"
	"clauselens-backend/repository"
	"clauselens-backend/service"
	"clauselens-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `EMPLOYMENT AGREEMENT

1. The Company shall pay the Employee a salary of $5,000 per month, payable on the last business day of each month.

2. The Company may terminate this agreement immediately and without cause upon 3 days notice to the Employee.

3. The Employee assumes unlimited liability and shall indemnify and hold harmless the Company against all claims and damages.`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewContractRepository(t.TempDir())
	require.NoError(t, err)

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	idx := index.NewMemory(embedding.NewLocalEmbedder(0))

	analysisService := service.NewAnalysisService(
		service.WithContractRepository(repo),
		service.WithIndex(idx),
	)
	chatService := service.NewChatService(
		service.ChatWithContractRepository(repo),
		service.ChatWithIndex(idx),
	)

	uploadHandler := NewUploadHandler(analysisService, fileStorage, nil)
	contractHandler := NewContractHandler(analysisService, repo, nil)
	chatHandler := NewChatHandler(chatService, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/contracts/upload", uploadHandler.UploadContract)
	api.GET("/contracts", contractHandler.ListContracts)
	api.GET("/contracts/:id", contractHandler.GetContract)
	api.DELETE("/contracts/:id", contractHandler.DeleteContract)
	api.GET("/contracts/:id/risk", contractHandler.GetRiskSummary)
	api.GET("/contracts/:id/analysis", contractHandler.GetAnalysis)
	api.POST("/contracts/:id/clauses/:clauseId/analyze", contractHandler.AnalyzeClause)
	api.POST("/contracts/:id/chat", chatHandler.Chat)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, contentType string, body *bytes.Buffer) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func uploadText(t *testing.T, r *gin.Engine, title, text string) string {
	t.Helper()
	form := url.Values{}
	form.Set("title", title)
	form.Set("text", text)

	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/upload",
		"application/x-www-form-urlencoded", bytes.NewBufferString(form.Encode()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return resp["contract_id"].(string)
}

func TestUploadContract_TextField(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{}
	form.Set("title", "Employment Agreement")
	form.Set("text", sampleContract)

	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/upload",
		"application/x-www-form-urlencoded", bytes.NewBufferString(form.Encode()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Employment Agreement", resp["title"])
	assert.Equal(t, float64(3), resp["clause_count"])
	assert.NotEmpty(t, resp["contract_id"])
}

func TestUploadContract_MultipartFile(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "employment.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleContract))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/upload", mw.FormDataContentType(), &buf)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "employment", resp["title"])
}

func TestUploadContract_InsufficientText(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{}
	form.Set("text", "too short")

	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/upload",
		"application/x-www-form-urlencoded", bytes.NewBufferString(form.Encode()))

	require.Equal(t, http.StatusBadRequest, w.Code)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_TEXT", errObj["code"])
}

func TestListAndGetContract(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	w, resp := doRequest(t, r, http.MethodGet, "/api/contracts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["count"])

	w, resp = doRequest(t, r, http.MethodGet, "/api/contracts/"+contractID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	contract := resp["contract"].(map[string]any)
	assert.Equal(t, contractID, contract["id"])
}

func TestGetContract_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doRequest(t, r, http.MethodGet, "/api/contracts/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "CONTRACT_NOT_FOUND", errObj["code"])
}

func TestGetRiskSummary(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	w, resp := doRequest(t, r, http.MethodGet, "/api/contracts/"+contractID+"/risk", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	clauses := resp["clauses"].([]any)
	require.Len(t, clauses, 3)

	liability := clauses[2].(map[string]any)
	assert.Equal(t, "liability", liability["clause_type"])
	assert.Equal(t, "high", liability["risk_level"])
	assert.NotEmpty(t, liability["recommendations"])
}

func TestAnalyzeClause(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	body := bytes.NewBufferString(`{"text": "Either party may terminate this agreement upon 90 days written notice for cause."}`)
	w, resp := doRequest(t, r, http.MethodPost,
		"/api/contracts/"+contractID+"/clauses/"+contractID+"_clause_1/analyze",
		"application/json", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	clause := resp["clause"].(map[string]any)
	assert.Equal(t, "termination", clause["clause_type"])
	assert.Less(t, clause["risk_score"].(float64), 1.0)
}

func TestAnalyzeClause_MissingClause(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	body := bytes.NewBufferString(`{"text": "Replacement clause text that is long enough to analyze."}`)
	w, resp := doRequest(t, r, http.MethodPost,
		"/api/contracts/"+contractID+"/clauses/nope/analyze", "application/json", body)

	require.Equal(t, http.StatusNotFound, w.Code)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "CLAUSE_NOT_FOUND", errObj["code"])
}

func TestChat(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	body := bytes.NewBufferString(`{"query": "Can the company terminate me?"}`)
	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/"+contractID+"/chat", "application/json", body)

	require.Equal(t, http.StatusOK, w.Code)
	answer := resp["answer"].(string)
	assert.True(t, strings.HasPrefix(answer, "Termination Provisions"), answer)
	assert.NotEmpty(t, resp["relevant_clauses"])
}

func TestChat_EmptyQuery(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	body := bytes.NewBufferString(`{"query": "   "}`)
	w, resp := doRequest(t, r, http.MethodPost, "/api/contracts/"+contractID+"/chat", "application/json", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "INVALID_REQUEST", errObj["code"])
}

func TestDeleteContract(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "A", sampleContract)

	w, resp := doRequest(t, r, http.MethodDelete, "/api/contracts/"+contractID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	w, _ = doRequest(t, r, http.MethodDelete, "/api/contracts/"+contractID, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAnalysis(t *testing.T) {
	r := newTestRouter(t)
	contractID := uploadText(t, r, "Employment Agreement", sampleContract)

	w, resp := doRequest(t, r, http.MethodGet, "/api/contracts/"+contractID+"/analysis", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])

	analysisBody := resp["analysis"].(map[string]any)
	keyTerms := analysisBody["key_terms"].(map[string]any)
	amounts := keyTerms["monetary_amounts"].([]any)
	require.NotEmpty(t, amounts)
	assert.Equal(t, "$5,000", amounts[0].(map[string]any)["amount"])

	obligations := analysisBody["obligations"].(map[string]any)
	assert.NotEmpty(t, obligations["must_do"])
}

func TestGetAnalysis_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doRequest(t, r, http.MethodGet, "/api/contracts/missing/analysis", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "CONTRACT_NOT_FOUND", errBody["code"])
}
