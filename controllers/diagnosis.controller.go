package controllers

import (
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/lib/pq"
    "go.uber.org/zap"

    "screening-service/ai"
    "screening-service/config"
    "screening-service/models"
    "screening-service/security"
    "screening-service/store"
    "screening-service/triage"
    "screening-service/utils"
)

// Wired in main before routes are registered.
var AI *ai.Client
var Drafts *store.DraftStore

type AnalyzeInput struct {
    Symptoms         string          `json:"symptoms"`
    Duration         string          `json:"duration"`
    Severity         string          `json:"severity" binding:"omitempty,oneof=mild moderate severe"`
    Conditions       []string        `json:"conditions"`
    Medications      string          `json:"medications"`
    BPSystolic       string          `json:"bp_systolic"`
    BPDiastolic      string          `json:"bp_diastolic"`
    ScreeningAnswers map[string]bool `json:"screening_answers"`
}

// RunAnalysis is the screening orchestrator: normalize the intake, run
// the triage rules, and only when no rule fires hand the case to the
// inference service. A triage verdict is terminal — it is never saved
// as a consultation, even for logged-in patients.
func RunAnalysis(c *gin.Context) {
    var input AnalyzeInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    symptoms := strings.TrimSpace(input.Symptoms)
    if symptoms == "" {
        security.SendValidationError(c, "Symptom description is required", nil)
        return
    }

    userID := c.GetString("user_id")
    isGuest := c.GetBool("is_guest")

    // Profile-known age/gender for logged-in patients; guest defaults
    // otherwise. A profile lookup failure falls back to the defaults
    // rather than blocking the screening.
    age := 30
    gender := "other"
    if !isGuest {
        var dob *time.Time
        var g *string
        err := config.DB.QueryRow(`SELECT date_of_birth, gender FROM users WHERE id = $1`, userID).Scan(&dob, &g)
        if err == nil {
            if dob != nil {
                age = utils.AgeFromDOB(*dob, time.Now())
            }
            if g != nil && *g != "" {
                gender = *g
            }
        }
    }

    normalized := utils.BuildScreeningInput(age, gender, symptoms, input.Duration, input.Severity,
        input.Conditions, input.Medications, input.BPSystolic, input.BPDiastolic, input.ScreeningAnswers)

    verdict := triage.Evaluate(triage.Input{
        Age:                age,
        Gender:             gender,
        Symptoms:           symptoms,
        BPSystolic:         input.BPSystolic,
        BPDiastolic:        input.BPDiastolic,
        ExistingConditions: normalized.ExistingConditions,
        ScreeningAnswers:   input.ScreeningAnswers,
    })

    if verdict != nil {
        c.JSON(http.StatusOK, gin.H{
            "result":          verdict,
            "confidence_tier": utils.ConfidenceTier(verdict.Confidence),
            "matched_doctors": matchDoctors(verdict.RecommendedSpecialization),
            "saved":           false,
        })
        return
    }

    result, err := AI.SelfDiagnose(c.Request.Context(), normalized)
    if err != nil {
        security.SendServiceUnavailable(c, "AI Diagnostics is temporarily offline. Please consult a doctor directly.")
        return
    }

    saved := false
    if !isGuest {
        if err := saveConsultation(userID, normalized, result); err != nil {
            config.Logger.Error("Failed to save consultation", zap.String("user_id", userID), zap.Error(err))
            security.SendServiceUnavailable(c, "AI Diagnostics is temporarily offline. Please consult a doctor directly.")
            return
        }
        saved = true

        if err := Drafts.Clear(c.Request.Context(), userID); err != nil {
            config.Logger.Warn("Failed to clear draft after screening", zap.String("user_id", userID), zap.Error(err))
        }
    }

    c.JSON(http.StatusOK, gin.H{
        "result":          result,
        "confidence_tier": utils.ConfidenceTier(result.Confidence),
        "matched_doctors": matchDoctors(result.RecommendedSpecialization),
        "saved":           saved,
    })
}

func saveConsultation(userID string, input models.ScreeningInput, result *models.AIDiagnosis) error {
    diagJSON, err := json.Marshal(result)
    if err != nil {
        return err
    }

    _, err = config.DB.Exec(`
        INSERT INTO consultations (
            patient_id, symptoms, duration, severity, existing_conditions,
            current_medications, diagnosis, recommended_specialization, confidence, urgency_level
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, userID, input.Symptoms, input.Duration, input.Severity, pq.Array(input.ExistingConditions),
        input.CurrentMedications, diagJSON, result.RecommendedSpecialization, result.Confidence, result.UrgencyLevel)
    return err
}

// matchDoctors fetches up to 3 active providers for the recommended
// specialization, best-rated first. A lookup failure degrades to an
// empty list; the screening result still stands.
func matchDoctors(specialization string) []models.Doctor {
    doctors := []models.Doctor{}

    rows, err := config.DB.Query(`
        SELECT d.id, d.user_id, CONCAT(u.first_name, ' ', u.last_name) AS name,
               d.specialization, d.qualification, d.years_of_experience, d.languages_spoken,
               d.practice_place, d.consultation_fee, d.available, d.verification_status,
               d.average_rating, d.total_reviews, d.total_consultations
        FROM doctors d
        JOIN users u ON u.id = d.user_id
        WHERE d.is_active = true AND d.specialization = $1
        ORDER BY d.average_rating DESC
        LIMIT 3
    `, specialization)
    if err != nil {
        config.Logger.Warn("Failed to fetch matched doctors", zap.String("specialization", specialization), zap.Error(err))
        return doctors
    }
    defer rows.Close()

    for rows.Next() {
        var doc models.Doctor
        err := rows.Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.Specialization, &doc.Qualification,
            &doc.YearsOfExperience, pq.Array(&doc.LanguagesSpoken), &doc.PracticePlace, &doc.Fee,
            &doc.Available, &doc.VerificationStatus, &doc.AverageRating, &doc.TotalReviews, &doc.TotalConsultations)
        if err != nil {
            continue
        }
        doctors = append(doctors, doc)
    }

    return doctors
}

// GetScreeningForm returns the fixed intake form vocabulary so clients
// render the same buckets the backend validates.
func GetScreeningForm(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
        "common_issues":       utils.CommonIssues,
        "durations":           utils.Durations,
        "severities":          utils.Severities,
        "screening_questions": utils.ScreeningQuestions,
    })
}
