package controllers

import (
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/lib/pq"

    "screening-service/config"
    "screening-service/models"
)

// GetConsultations returns the caller's saved screening history,
// newest first.
func GetConsultations(c *gin.Context) {
    userID := c.GetString("user_id")

    limitStr := c.DefaultQuery("limit", "20")
    offsetStr := c.DefaultQuery("offset", "0")

    limit, err := strconv.Atoi(limitStr)
    if err != nil || limit <= 0 {
        limit = 20
    }
    offset, err := strconv.Atoi(offsetStr)
    if err != nil || offset < 0 {
        offset = 0
    }

    rows, err := config.DB.Query(`
        SELECT id, patient_id, symptoms, duration, severity, existing_conditions,
               current_medications, diagnosis, recommended_specialization, confidence,
               urgency_level, created_at
        FROM consultations
        WHERE patient_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, userID, limit, offset)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch consultations"})
        return
    }
    defer rows.Close()

    consultations := []models.Consultation{}
    for rows.Next() {
        var con models.Consultation
        err := rows.Scan(&con.ID, &con.PatientID, &con.Symptoms, &con.Duration, &con.Severity,
            pq.Array(&con.ExistingConditions), &con.CurrentMedications, &con.Diagnosis,
            &con.RecommendedSpecialization, &con.Confidence, &con.UrgencyLevel, &con.CreatedAt)
        if err != nil {
            continue
        }
        consultations = append(consultations, con)
    }

    c.JSON(http.StatusOK, gin.H{
        "consultations": consultations,
        "count":         len(consultations),
    })
}
