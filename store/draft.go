package store

import (
    "context"
    "encoding/json"
    "time"

    "go.uber.org/zap"

    "screening-service/models"
)

// draftTTL is the session analog for server-held drafts.
const draftTTL = 24 * time.Hour

// DraftStore persists in-progress intake forms keyed by identity, so a
// patient (or guest) can resume where they left off. An absent key
// means there is no draft to restore.
type DraftStore struct {
    kv     KV
    logger *zap.Logger
}

func NewDraftStore(kv KV, logger *zap.Logger) *DraftStore {
    return &DraftStore{kv: kv, logger: logger}
}

func draftKey(userID string) string {
    return "ai_draft_" + userID
}

// Save overwrites the draft for the given identity.
func (s *DraftStore) Save(ctx context.Context, userID string, draft models.Draft) error {
    data, err := json.Marshal(draft)
    if err != nil {
        return err
    }

    if err := s.kv.Set(ctx, draftKey(userID), string(data), draftTTL); err != nil {
        s.logger.Error("Failed to save draft", zap.String("user_id", userID), zap.Error(err))
        return err
    }
    return nil
}

// Load returns the stored draft, or ErrMiss when none exists.
func (s *DraftStore) Load(ctx context.Context, userID string) (*models.Draft, error) {
    raw, err := s.kv.Get(ctx, draftKey(userID))
    if err != nil {
        return nil, err
    }

    var draft models.Draft
    if err := json.Unmarshal([]byte(raw), &draft); err != nil {
        return nil, err
    }
    return &draft, nil
}

// Clear removes the draft, on explicit reset or after a successful
// saved screening.
func (s *DraftStore) Clear(ctx context.Context, userID string) error {
    if err := s.kv.Del(ctx, draftKey(userID)); err != nil {
        s.logger.Error("Failed to clear draft", zap.String("user_id", userID), zap.Error(err))
        return err
    }
    return nil
}
