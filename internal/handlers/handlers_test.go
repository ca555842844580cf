package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/cache"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/editor"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/repository"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/services"
)

// fakeSurveyStore keeps surveys in memory, mirroring the gorm repository's
// contract: Create assigns the id, missing rows surface ErrNotFound.
type fakeSurveyStore struct {
	surveys map[string]*models.Survey
	nextID  int
}

func newFakeSurveyStore() *fakeSurveyStore {
	return &fakeSurveyStore{surveys: make(map[string]*models.Survey)}
}

func clone(s *models.Survey) *models.Survey {
	c := *s
	c.Questions = append(models.QuestionList{}, s.Questions...)
	return &c
}

func (f *fakeSurveyStore) Create(_ context.Context, survey *models.Survey) (string, error) {
	f.nextID++
	survey.ID = fmt.Sprintf("survey-%d", f.nextID)
	f.surveys[survey.ID] = clone(survey)
	return survey.ID, nil
}

func (f *fakeSurveyStore) Get(_ context.Context, id string) (*models.Survey, error) {
	s, ok := f.surveys[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(s), nil
}

func (f *fakeSurveyStore) Update(_ context.Context, survey *models.Survey) error {
	if _, ok := f.surveys[survey.ID]; !ok {
		return repository.ErrNotFound
	}
	f.surveys[survey.ID] = clone(survey)
	return nil
}

func (f *fakeSurveyStore) Publish(_ context.Context, id string) error {
	s, ok := f.surveys[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsPublished = true
	return nil
}

func (f *fakeSurveyStore) Delete(_ context.Context, id string) error {
	if _, ok := f.surveys[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.surveys, id)
	return nil
}

func (f *fakeSurveyStore) ListByOwner(_ context.Context, ownerID uint) ([]models.Survey, error) {
	var out []models.Survey
	for _, s := range f.surveys {
		if s.CreatedBy == ownerID {
			out = append(out, *clone(s))
		}
	}
	return out, nil
}

type fakeResponseStore struct {
	responses map[string][]models.Response
	nextID    int
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[string][]models.Response)}
}

func (f *fakeResponseStore) Create(_ context.Context, response *models.Response) (string, error) {
	f.nextID++
	response.ID = fmt.Sprintf("response-%d", f.nextID)
	f.responses[response.SurveyID] = append(f.responses[response.SurveyID], *response)
	return response.ID, nil
}

func (f *fakeResponseStore) ListBySurvey(_ context.Context, surveyID string) ([]models.Response, error) {
	return f.responses[surveyID], nil
}

func (f *fakeResponseStore) CountBySurvey(_ context.Context, surveyID string) (int64, error) {
	return int64(len(f.responses[surveyID])), nil
}

type testEnv struct {
	router    *gin.Engine
	surveys   *fakeSurveyStore
	responses *fakeResponseStore
}

// newTestEnv builds the API surface with in-memory stores. The signed-in
// user is injected by middleware so the tests exercise handlers, not session
// plumbing.
func newTestEnv(t *testing.T, user *models.User) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	surveys := newFakeSurveyStore()
	responses := newFakeResponseStore()
	counts := cache.New("", 0, log) // disabled cache, every read is a miss
	drafts := editor.NewManager()
	submission := services.NewSubmissionService(responses)

	draftHandler := NewDraftHandler(log, surveys, drafts)
	surveyHandler := NewSurveyHandler(log, surveys, responses, counts)
	publicHandler := NewPublicHandler(log, surveys, submission, counts)
	resultsHandler := NewResultsHandler(log, surveys, responses)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
	})

	api := router.Group("/api")
	public := api.Group("/public/surveys")
	public.GET("/:surveyId", publicHandler.Get)
	public.POST("/:surveyId/responses", publicHandler.Submit)

	api.GET("/surveys", surveyHandler.List)
	api.GET("/surveys/:surveyId", surveyHandler.Get)
	api.POST("/surveys/:surveyId/publish", surveyHandler.Publish)
	api.DELETE("/surveys/:surveyId", surveyHandler.Delete)
	api.GET("/surveys/:surveyId/results", resultsHandler.Show)

	api.POST("/draft", draftHandler.Init)
	api.GET("/draft", draftHandler.Get)
	api.DELETE("/draft", draftHandler.Clear)
	api.POST("/draft/load", draftHandler.Load)
	api.PATCH("/draft", draftHandler.UpdateMetadata)
	api.POST("/draft/save", draftHandler.Save)
	api.POST("/draft/questions", draftHandler.AddQuestion)
	api.PUT("/draft/questions/:questionId", draftHandler.UpdateQuestion)
	api.DELETE("/draft/questions/:questionId", draftHandler.RemoveQuestion)
	api.POST("/draft/questions/reorder", draftHandler.Reorder)
	api.POST("/draft/questions/:questionId/options", draftHandler.AddOption)
	api.PUT("/draft/questions/:questionId/options/:optionId", draftHandler.UpdateOption)
	api.DELETE("/draft/questions/:questionId/options/:optionId", draftHandler.RemoveOption)

	return &testEnv{router: router, surveys: surveys, responses: responses}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// TestSurveyLifecycle walks the whole flow: draft a survey, add a rating
// question, save, publish, take one submission and read the results.
func TestSurveyLifecycle(t *testing.T) {
	owner := &models.User{ID: 1, Email: "owner@example.com", EmailVerified: true}
	env := newTestEnv(t, owner)

	if w := env.do(t, http.MethodPost, "/api/draft", nil); w.Code != http.StatusCreated {
		t.Fatalf("init draft: status %d, body %s", w.Code, w.Body.String())
	}

	title := "Customer Feedback"
	if w := env.do(t, http.MethodPatch, "/api/draft", gin.H{"title": title}); w.Code != http.StatusOK {
		t.Fatalf("set title: status %d, body %s", w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodPost, "/api/draft/questions", gin.H{"type": "RATING"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add question: status %d, body %s", w.Code, w.Body.String())
	}
	var question models.Question
	decode(t, w, &question)
	if question.ID == "" || question.Type != models.Rating {
		t.Fatalf("unexpected question %+v", question)
	}

	update := gin.H{"type": "RATING", "text": "How satisfied are you?", "required": true}
	if w := env.do(t, http.MethodPut, "/api/draft/questions/"+question.ID, update); w.Code != http.StatusOK {
		t.Fatalf("update question: status %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/draft/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save draft: status %d, body %s", w.Code, w.Body.String())
	}
	var saved models.Survey
	decode(t, w, &saved)
	if saved.ID == "" || saved.Title != title {
		t.Fatalf("unexpected saved survey %+v", saved)
	}

	// Not published yet: respondents must not see it.
	if w := env.do(t, http.MethodGet, "/api/public/surveys/"+saved.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unpublished survey is public: status %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/api/surveys/"+saved.ID+"/publish", nil); w.Code != http.StatusOK {
		t.Fatalf("publish: status %d, body %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodGet, "/api/public/surveys/"+saved.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("published survey not public: status %d", w.Code)
	}

	submit := gin.H{"answers": gin.H{question.ID: gin.H{"rating": 5}}}
	if w := env.do(t, http.MethodPost, "/api/public/surveys/"+saved.ID+"/responses", submit); w.Code != http.StatusCreated {
		t.Fatalf("submit response: status %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/surveys/"+saved.ID+"/results", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("results: status %d, body %s", w.Code, w.Body.String())
	}
	var results struct {
		SurveyID      string `json:"surveyId"`
		Title         string `json:"title"`
		ResponseCount int    `json:"responseCount"`
		Questions     []struct {
			QuestionID string          `json:"questionId"`
			Total      int             `json:"total"`
			Average    float64         `json:"average"`
			Chart      json.RawMessage `json:"chart"`
		} `json:"questions"`
	}
	decode(t, w, &results)
	if results.ResponseCount != 1 || results.Title != title {
		t.Errorf("results header = %+v", results)
	}
	if len(results.Questions) != 1 {
		t.Fatalf("results cover %d questions, want 1", len(results.Questions))
	}
	q := results.Questions[0]
	if q.Total != 1 || q.Average != 5.0 {
		t.Errorf("rating stats total=%d average=%v, want 1 and 5.0", q.Total, q.Average)
	}
	if len(q.Chart) == 0 {
		t.Errorf("rating question has no chart payload")
	}

	// The dashboard listing reports the derived count.
	w = env.do(t, http.MethodGet, "/api/surveys", nil)
	var summaries []models.SurveySummary
	decode(t, w, &summaries)
	if len(summaries) != 1 || summaries[0].ResponseCount != 1 {
		t.Errorf("dashboard summaries = %+v", summaries)
	}
}

func TestDraftInitRefusesOverwrite(t *testing.T) {
	owner := &models.User{ID: 1, EmailVerified: true}
	env := newTestEnv(t, owner)

	if w := env.do(t, http.MethodPost, "/api/draft", nil); w.Code != http.StatusCreated {
		t.Fatalf("init draft: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/draft", nil); w.Code != http.StatusConflict {
		t.Errorf("second init: status %d, want %d", w.Code, http.StatusConflict)
	}

	// Discarding the draft frees the editor again.
	if w := env.do(t, http.MethodDelete, "/api/draft", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear draft: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/draft", nil); w.Code != http.StatusCreated {
		t.Errorf("init after clear: status %d", w.Code)
	}
}

func TestSomebodyElsesSurveyLooksMissing(t *testing.T) {
	owner := &models.User{ID: 2, EmailVerified: true}
	env := newTestEnv(t, owner)

	foreign := &models.Survey{Title: "Not yours", CreatedBy: 99}
	env.surveys.Create(context.Background(), foreign)

	paths := []string{
		"/api/surveys/" + foreign.ID,
		"/api/surveys/" + foreign.ID + "/results",
	}
	for _, path := range paths {
		if w := env.do(t, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
	if w := env.do(t, http.MethodPost, "/api/surveys/"+foreign.ID+"/publish", nil); w.Code != http.StatusNotFound {
		t.Errorf("publish foreign survey: status %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := env.do(t, http.MethodPost, "/api/draft/load", gin.H{"surveyId": foreign.ID}); w.Code != http.StatusNotFound {
		t.Errorf("load foreign survey: status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestSubmitValidationNamesQuestion(t *testing.T) {
	env := newTestEnv(t, nil) // respondents are anonymous

	survey := &models.Survey{
		Title:       "Required things",
		CreatedBy:   1,
		IsPublished: true,
		Questions: models.QuestionList{
			{ID: "q1", Type: models.Text, Text: "Name", Required: true},
		},
	}
	env.surveys.Create(context.Background(), survey)

	w := env.do(t, http.MethodPost, "/api/public/surveys/"+survey.ID+"/responses", gin.H{"answers": gin.H{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("submit without required answer: status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		QuestionID string `json:"questionId"`
	}
	decode(t, w, &body)
	if body.QuestionID != "q1" {
		t.Errorf("error names question %q, want q1", body.QuestionID)
	}
	if n, _ := env.responses.CountBySurvey(context.Background(), survey.ID); n != 0 {
		t.Errorf("rejected submission was stored, count=%d", n)
	}
}

// TestConcurrentDraftEditsAndReads hammers the draft with a writer and a
// reader at once, as two editor tabs would. Responses must be built from
// state captured under the session lock; the race detector flags any read
// of live draft memory during marshaling.
func TestConcurrentDraftEditsAndReads(t *testing.T) {
	owner := &models.User{ID: 1, EmailVerified: true}
	env := newTestEnv(t, owner)

	if w := env.do(t, http.MethodPost, "/api/draft", nil); w.Code != http.StatusCreated {
		t.Fatalf("init draft: status %d", w.Code)
	}

	const iterations = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			env.do(t, http.MethodPost, "/api/draft/questions", gin.H{"type": "MULTIPLE_CHOICE"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			w := env.do(t, http.MethodGet, "/api/draft", nil)
			var draft models.Survey
			if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
				t.Errorf("decode draft: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	w := env.do(t, http.MethodGet, "/api/draft", nil)
	var draft models.Survey
	decode(t, w, &draft)
	if len(draft.Questions) != iterations {
		t.Errorf("draft holds %d questions, want %d", len(draft.Questions), iterations)
	}
}

func TestDeleteSurveyRemovesIt(t *testing.T) {
	owner := &models.User{ID: 1, EmailVerified: true}
	env := newTestEnv(t, owner)

	survey := &models.Survey{Title: "Short lived", CreatedBy: 1}
	env.surveys.Create(context.Background(), survey)

	if w := env.do(t, http.MethodDelete, "/api/surveys/"+survey.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodGet, "/api/surveys/"+survey.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted survey still served: status %d", w.Code)
	}
}
