package controllers

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "screening-service/ai"
    "screening-service/config"
    "screening-service/models"
    "screening-service/store"
)

func init() {
    gin.SetMode(gin.TestMode)
    config.Logger = zap.NewNop()
}

// memKV is an in-memory store.KV so draft behavior is observable
// without redis.
type memKV struct {
    data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
    val, ok := m.data[key]
    if !ok {
        return "", store.ErrMiss
    }
    return val, nil
}

func (m *memKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
    m.data[key] = value
    return nil
}

func (m *memKV) Del(ctx context.Context, key string) error {
    delete(m.data, key)
    return nil
}

func withIdentity(userID string, guest bool) gin.HandlerFunc {
    return func(c *gin.Context) {
        c.Set("user_id", userID)
        c.Set("is_guest", guest)
        c.Next()
    }
}

// newAIServer serves a fixed diagnosis and counts how many times it was
// called. A negative status means "respond normally".
func newAIServer(t *testing.T, status int, result models.AIDiagnosis) (*httptest.Server, *int32) {
    t.Helper()
    var calls int32

    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&calls, 1)
        if status > 0 {
            http.Error(w, "upstream failure", status)
            return
        }
        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(result)
    }))
    t.Cleanup(srv.Close)

    return srv, &calls
}

func analyzeRequest(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
    t.Helper()
    payload, err := json.Marshal(body)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(payload))
    req.Header.Set("Content-Type", "application/json")
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)
    return w
}

func setupAnalyze(t *testing.T, userID string, guest bool) (*gin.Engine, sqlmock.Sqlmock, *memKV) {
    t.Helper()

    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    config.DB = db

    kv := newMemKV()
    Drafts = store.NewDraftStore(kv, zap.NewNop())

    r := gin.New()
    r.POST("/analyze", withIdentity(userID, guest), RunAnalysis)
    return r, mock, kv
}

func doctorRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "user_id", "name", "specialization", "qualification", "years_of_experience",
        "languages_spoken", "practice_place", "consultation_fee", "available",
        "verification_status", "average_rating", "total_reviews", "total_consultations",
    })
}

func TestRunAnalysisRejectsEmptySymptoms(t *testing.T) {
    srv, calls := newAIServer(t, -1, models.AIDiagnosis{})
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, mock, _ := setupAnalyze(t, "guest-1", true)

    w := analyzeRequest(t, r, gin.H{"symptoms": "   "})

    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.Equal(t, int32(0), atomic.LoadInt32(calls))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAnalysisTriageShortCircuit(t *testing.T) {
    srv, calls := newAIServer(t, -1, models.AIDiagnosis{})
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, mock, _ := setupAnalyze(t, "guest-1", true)
    mock.ExpectQuery("SELECT d\\.id").
        WithArgs("Emergency Specialist").
        WillReturnRows(doctorRows())

    w := analyzeRequest(t, r, gin.H{"symptoms": "sudden chest pain"})

    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        Result         models.AIDiagnosis `json:"result"`
        ConfidenceTier string             `json:"confidence_tier"`
        Saved          bool               `json:"saved"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

    assert.Equal(t, "Critical Clinical Emergency", resp.Result.Diagnosis.Primary)
    assert.Equal(t, "low", resp.ConfidenceTier)
    assert.False(t, resp.Saved)
    assert.Equal(t, int32(0), atomic.LoadInt32(calls), "inference must not run when a triage rule fires")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAnalysisGuestInference(t *testing.T) {
    srv, calls := newAIServer(t, -1, models.AIDiagnosis{
        Confidence:                72,
        Diagnosis:                 models.Diagnosis{Primary: "Tension Headache"},
        RecommendedSpecialization: "General Physician",
        UrgencyLevel:              "routine",
    })
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, mock, _ := setupAnalyze(t, "guest-1", true)
    mock.ExpectQuery("SELECT d\\.id").
        WithArgs("General Physician").
        WillReturnRows(doctorRows().
            AddRow("d1", "u9", "Asha Nair", "General Physician", "MBBS", 8,
                "{English}", "City Clinic", 400.0, true, "verified", 4.7, 120, 800))

    w := analyzeRequest(t, r, gin.H{"symptoms": "mild headache", "severity": "mild"})

    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        Result         models.AIDiagnosis `json:"result"`
        ConfidenceTier string             `json:"confidence_tier"`
        MatchedDoctors []models.Doctor    `json:"matched_doctors"`
        Saved          bool               `json:"saved"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

    assert.Equal(t, "Tension Headache", resp.Result.Diagnosis.Primary)
    assert.Equal(t, "moderate", resp.ConfidenceTier)
    require.Len(t, resp.MatchedDoctors, 1)
    assert.Equal(t, "Asha Nair", resp.MatchedDoctors[0].Name)
    assert.False(t, resp.Saved, "guest screenings are never persisted")
    assert.Equal(t, int32(1), atomic.LoadInt32(calls))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAnalysisAIOffline(t *testing.T) {
    srv, calls := newAIServer(t, http.StatusInternalServerError, models.AIDiagnosis{})
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, _, _ := setupAnalyze(t, "guest-1", true)

    w := analyzeRequest(t, r, gin.H{"symptoms": "mild headache"})

    assert.Equal(t, http.StatusServiceUnavailable, w.Code)
    assert.Contains(t, w.Body.String(), "AI Diagnostics is temporarily offline. Please consult a doctor directly.")
    assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRunAnalysisAuthenticatedSavesAndClearsDraft(t *testing.T) {
    srv, calls := newAIServer(t, -1, models.AIDiagnosis{
        Confidence:                100,
        Diagnosis:                 models.Diagnosis{Primary: "Gastritis"},
        RecommendedSpecialization: "Gastroenterologist",
        UrgencyLevel:              "routine",
    })
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, mock, kv := setupAnalyze(t, "user-42", false)
    kv.data["ai_draft_user-42"] = `{"symptoms":"stomach ache"}`

    dob := time.Date(1990, time.March, 2, 0, 0, 0, 0, time.UTC)
    mock.ExpectQuery("SELECT date_of_birth, gender FROM users").
        WithArgs("user-42").
        WillReturnRows(sqlmock.NewRows([]string{"date_of_birth", "gender"}).AddRow(dob, "female"))
    mock.ExpectExec("INSERT INTO consultations").
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectQuery("SELECT d\\.id").
        WithArgs("Gastroenterologist").
        WillReturnRows(doctorRows())

    w := analyzeRequest(t, r, gin.H{
        "symptoms":    "stomach ache after meals",
        "duration":    "1-3 Days",
        "severity":    "moderate",
        "medications": "antacid",
    })

    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        ConfidenceTier string `json:"confidence_tier"`
        Saved          bool   `json:"saved"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

    assert.True(t, resp.Saved)
    assert.Equal(t, "high", resp.ConfidenceTier)
    assert.Equal(t, int32(1), atomic.LoadInt32(calls))
    _, stillThere := kv.data["ai_draft_user-42"]
    assert.False(t, stillThere, "draft must be cleared after a saved screening")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAnalysisSaveFailure(t *testing.T) {
    srv, _ := newAIServer(t, -1, models.AIDiagnosis{
        Confidence:                80,
        Diagnosis:                 models.Diagnosis{Primary: "Gastritis"},
        RecommendedSpecialization: "Gastroenterologist",
        UrgencyLevel:              "routine",
    })
    AI = ai.NewClient(srv.URL, "", zap.NewNop())

    r, mock, kv := setupAnalyze(t, "user-42", false)
    kv.data["ai_draft_user-42"] = `{"symptoms":"stomach ache"}`

    mock.ExpectQuery("SELECT date_of_birth, gender FROM users").
        WithArgs("user-42").
        WillReturnError(assert.AnError)
    mock.ExpectExec("INSERT INTO consultations").
        WillReturnError(assert.AnError)

    w := analyzeRequest(t, r, gin.H{"symptoms": "stomach ache after meals"})

    assert.Equal(t, http.StatusServiceUnavailable, w.Code)
    _, stillThere := kv.data["ai_draft_user-42"]
    assert.True(t, stillThere, "draft must survive a failed save")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScreeningForm(t *testing.T) {
    r := gin.New()
    r.GET("/form", GetScreeningForm)

    w := httptest.NewRecorder()
    r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

    require.Equal(t, http.StatusOK, w.Code)

    var resp struct {
        CommonIssues []string `json:"common_issues"`
        Durations    []string `json:"durations"`
        Severities   []string `json:"severities"`
        Questions    []struct {
            ID    string `json:"id"`
            Label string `json:"label"`
        } `json:"screening_questions"`
    }
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

    assert.Len(t, resp.CommonIssues, 10)
    assert.Equal(t, "Less than 24 hours", resp.Durations[0])
    assert.Equal(t, []string{"mild", "moderate", "severe"}, resp.Severities)
    require.Len(t, resp.Questions, 6)
    assert.Equal(t, "fever_high", resp.Questions[0].ID)
}
