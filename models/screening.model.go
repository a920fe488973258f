package models

import (
    "database/sql/driver"
    "encoding/json"
    "time"
)

type User struct {
    ID           string     `json:"id" db:"id"`
    Email        *string    `json:"email" db:"email"`
    Username     string     `json:"username" db:"username"`
    PasswordHash string     `json:"-" db:"password_hash"`
    FirstName    string     `json:"first_name" db:"first_name"`
    LastName     string     `json:"last_name" db:"last_name"`
    Phone        *string    `json:"phone" db:"phone"`
    DateOfBirth  *time.Time `json:"date_of_birth" db:"date_of_birth"`
    Gender       *string    `json:"gender" db:"gender"`
    IsActive     bool       `json:"is_active" db:"is_active"`
    LastLogin    *time.Time `json:"last_login" db:"last_login"`
    CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type RefreshToken struct {
    ID        string     `json:"id" db:"id"`
    UserID    string     `json:"user_id" db:"user_id"`
    Token     string     `json:"token" db:"token"`
    ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
    RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

type Patient struct {
    ID             string    `json:"id" db:"id"`
    UserID         string    `json:"user_id" db:"user_id"`
    MedicalHistory *string   `json:"medical_history" db:"medical_history"`
    Allergies      *string   `json:"allergies" db:"allergies"`
    BloodGroup     *string   `json:"blood_group" db:"blood_group"`
    IsActive       bool      `json:"is_active" db:"is_active"`
    CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Doctor is the public directory card shown to patients.
type Doctor struct {
    ID                 string   `json:"id" db:"id"`
    UserID             string   `json:"user_id" db:"user_id"`
    Name               string   `json:"name" db:"name"`
    Specialization     string   `json:"specialization" db:"specialization"`
    Qualification      *string  `json:"qualification" db:"qualification"`
    YearsOfExperience  int      `json:"years_of_experience" db:"years_of_experience"`
    LanguagesSpoken    []string `json:"languages_spoken" db:"languages_spoken"`
    PracticePlace      *string  `json:"practice_place" db:"practice_place"`
    Fee                float64  `json:"fee" db:"consultation_fee"`
    Available          bool     `json:"available" db:"available"`
    VerificationStatus string   `json:"verification_status" db:"verification_status"`
    AverageRating      float64  `json:"average_rating" db:"average_rating"`
    TotalReviews       int      `json:"total_reviews" db:"total_reviews"`
    TotalConsultations int      `json:"total_consultations" db:"total_consultations"`
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
    return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
    if value == nil {
        *j = make(map[string]interface{})
        return nil
    }

    bytes, ok := value.([]byte)
    if !ok {
        return nil
    }

    return json.Unmarshal(bytes, j)
}

type Consultation struct {
    ID                        string    `json:"id" db:"id"`
    PatientID                 string    `json:"patient_id" db:"patient_id"`
    Symptoms                  string    `json:"symptoms" db:"symptoms"`
    Duration                  string    `json:"duration" db:"duration"`
    Severity                  string    `json:"severity" db:"severity"`
    ExistingConditions        []string  `json:"existing_conditions" db:"existing_conditions"`
    CurrentMedications        string    `json:"current_medications" db:"current_medications"`
    Diagnosis                 JSONB     `json:"diagnosis" db:"diagnosis"`
    RecommendedSpecialization string    `json:"recommended_specialization" db:"recommended_specialization"`
    Confidence                int       `json:"confidence" db:"confidence"`
    UrgencyLevel              string    `json:"urgency_level" db:"urgency_level"`
    CreatedAt                 time.Time `json:"created_at" db:"created_at"`
}
