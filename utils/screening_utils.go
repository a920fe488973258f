package utils

import (
    "fmt"
    "strings"
    "time"

    "screening-service/models"
)

// ScreeningQuestion is one of the fixed yes/no diagnostic markers on
// the intake form. The ID is the stable key used in drafts and
// screening answers.
type ScreeningQuestion struct {
    ID    string `json:"id"`
    Label string `json:"label"`
}

var ScreeningQuestions = []ScreeningQuestion{
    {ID: "fever_high", Label: "Fever above 102°F?"},
    {ID: "difficulty_breathing", Label: "Difficulty breathing?"},
    {ID: "pain_severe", Label: "Pain is unbearable?"},
    {ID: "drowsy", Label: "Feeling unusually drowsy?"},
    {ID: "travel", Label: "Recent travel history?"},
    {ID: "med_history", Label: "History of similar issue?"},
}

var Durations = []string{
    "Less than 24 hours",
    "1-3 Days",
    "3-7 Days",
    "1-2 Weeks",
    "More than a month",
}

var CommonIssues = []string{
    "Fever & Chills",
    "Severe Cough",
    "Stomach Ache",
    "Headache / Migraine",
    "Body Pain",
    "Skin Rash",
    "Diarrhea / Loose Motion",
    "Weakness / Fatigue",
    "Dizziness",
    "Eye Irritation",
}

var Severities = []string{"mild", "moderate", "severe"}

// ScreeningSummary joins the labels of all affirmative screening
// answers in form order, so the narrative is deterministic.
func ScreeningSummary(answers map[string]bool) string {
    var labels []string
    for _, q := range ScreeningQuestions {
        if answers[q.ID] {
            labels = append(labels, q.Label)
        }
    }
    return strings.Join(labels, ", ")
}

// BuildScreeningInput normalizes raw form state into the single payload
// both the triage rules and the inference service receive. The symptom
// narrative embeds the raw BP reading and the positive screening
// markers so the model sees the same signal as the rule layer.
func BuildScreeningInput(age int, gender, symptoms, duration, severity string, conditions []string, medications, bpSys, bpDia string, answers map[string]bool) models.ScreeningInput {
    summary := ScreeningSummary(answers)
    if summary == "" {
        summary = "None"
    }

    if duration == "" {
        duration = Durations[0]
    }
    if severity == "" {
        severity = "moderate"
    }
    if len(conditions) == 0 {
        conditions = []string{"none"}
    }
    if medications == "" {
        medications = "none"
    }

    return models.ScreeningInput{
        Age:                age,
        Gender:             gender,
        Symptoms:           fmt.Sprintf("%s. BP: %s/%s mmHg. Additional markers: %s.", symptoms, bpSys, bpDia, summary),
        Duration:           duration,
        Severity:           severity,
        ExistingConditions: conditions,
        CurrentMedications: medications,
    }
}

// FilterDoctors returns the doctors whose name or specialization
// contains the query, case-insensitively. Pure and synchronous; an
// empty query keeps everyone.
func FilterDoctors(doctors []models.Doctor, query string) []models.Doctor {
    q := strings.ToLower(strings.TrimSpace(query))
    if q == "" {
        return doctors
    }

    filtered := []models.Doctor{}
    for _, d := range doctors {
        if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Specialization), q) {
            filtered = append(filtered, d)
        }
    }
    return filtered
}

// ConfidenceTier buckets a result's confidence score into the tier that
// drives which result view a client shows.
func ConfidenceTier(confidence int) string {
    switch {
    case confidence >= 100:
        return "high"
    case confidence >= 60:
        return "moderate"
    default:
        return "low"
    }
}

// AgeFromDOB computes a whole-year age as of now.
func AgeFromDOB(dob time.Time, now time.Time) int {
    age := now.Year() - dob.Year()
    if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
        age--
    }
    if age < 0 {
        return 0
    }
    return age
}
