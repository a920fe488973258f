package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/lib/pq"

    "screening-service/config"
    "screening-service/models"
    "screening-service/utils"
)

// GetDoctors lists the public directory. An optional exact
// specialization constraint narrows the database query; the free-text
// q parameter is applied afterwards as a pure in-memory filter over
// name and specialization.
func GetDoctors(c *gin.Context) {
    specialization := c.Query("specialization")

    query := `
        SELECT d.id, d.user_id, CONCAT(u.first_name, ' ', u.last_name) AS name,
               d.specialization, d.qualification, d.years_of_experience, d.languages_spoken,
               d.practice_place, d.consultation_fee, d.available, d.verification_status,
               d.average_rating, d.total_reviews, d.total_consultations
        FROM doctors d
        JOIN users u ON u.id = d.user_id
        WHERE d.is_active = true
    `
    args := []interface{}{}

    if specialization != "" {
        query += " AND d.specialization = $1"
        args = append(args, specialization)
    }
    query += " ORDER BY d.average_rating DESC"

    rows, err := config.DB.Query(query, args...)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
        return
    }
    defer rows.Close()

    doctors := []models.Doctor{}
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

    doctors = utils.FilterDoctors(doctors, c.Query("q"))

    c.JSON(http.StatusOK, gin.H{"doctors": doctors, "count": len(doctors)})
}

func GetDoctor(c *gin.Context) {
    doctorID := c.Param("id")

    var doc models.Doctor
    err := config.DB.QueryRow(`
        SELECT d.id, d.user_id, CONCAT(u.first_name, ' ', u.last_name) AS name,
               d.specialization, d.qualification, d.years_of_experience, d.languages_spoken,
               d.practice_place, d.consultation_fee, d.available, d.verification_status,
               d.average_rating, d.total_reviews, d.total_consultations
        FROM doctors d
        JOIN users u ON u.id = d.user_id
        WHERE d.id = $1 AND d.is_active = true
    `, doctorID).Scan(&doc.ID, &doc.UserID, &doc.Name, &doc.Specialization, &doc.Qualification,
        &doc.YearsOfExperience, pq.Array(&doc.LanguagesSpoken), &doc.PracticePlace, &doc.Fee,
        &doc.Available, &doc.VerificationStatus, &doc.AverageRating, &doc.TotalReviews, &doc.TotalConsultations)

    if err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
        return
    }

    c.JSON(http.StatusOK, doc)
}
