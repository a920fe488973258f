package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "screening-service/models"
    "screening-service/security"
    "screening-service/store"
)

// GetDraft restores the in-progress intake form for the caller's
// identity. Absence is a 404, not an error state.
func GetDraft(c *gin.Context) {
    userID := c.GetString("user_id")

    draft, err := Drafts.Load(c.Request.Context(), userID)
    if err != nil {
        if err == store.ErrMiss {
            security.SendNotFoundError(c, "draft")
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
        return
    }

    c.JSON(http.StatusOK, draft)
}

// SaveDraft overwrites the stored draft. The client calls this after
// every accepted form change.
func SaveDraft(c *gin.Context) {
    userID := c.GetString("user_id")

    var draft models.Draft
    if err := c.ShouldBindJSON(&draft); err != nil {
        security.SendValidationError(c, "Invalid draft data", err.Error())
        return
    }

    if err := Drafts.Save(c.Request.Context(), userID, draft); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Draft saved"})
}

// ClearDraft handles an explicit form reset.
func ClearDraft(c *gin.Context) {
    userID := c.GetString("user_id")

    if err := Drafts.Clear(c.Request.Context(), userID); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear draft"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Draft cleared"})
}
