package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"recipe-gamification/models"
	"recipe-gamification/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanSyncClient pulls plan changes from the billing sync service.
type PlanSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewPlanSyncClient(baseURL, token string) *PlanSyncClient {
	return &PlanSyncClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *PlanSyncClient) GetChangedPlans(ctx context.Context, since time.Time) ([]models.PlanMirror, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/subscriptions", c.BaseURL))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base URL")
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call sync service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Errorf("sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Subscriptions []models.PlanMirror `json:"subscriptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "failed to decode sync service response")
	}
	return response.Subscriptions, nil
}

// UpsertPlans writes plans into plan_mirrors keyed by user_id.
func UpsertPlans(db *gorm.DB, plans []models.PlanMirror) error {
	if len(plans) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range plans {
		if plans[i].ID == "" {
			plans[i].ID = uuid.NewString()
		}
		if plans[i].CreatedAt.IsZero() {
			plans[i].CreatedAt = now
		}
		if plans[i].UpdatedAt.IsZero() {
			plans[i].UpdatedAt = now
		}
	}
	return db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}}, // unique constraint target
			DoUpdates: clause.AssignmentColumns([]string{
				"plan",
				"status",
				"expires_at",
				"updated_at",
			}),
		},
	).Create(&plans).Error
}

// PollPlans mirrors plan changes into the DB and calls onChange with the
// affected user IDs after each successful batch.
func PollPlans(ctx context.Context, db *gorm.DB, client *PlanSyncClient, pollInterval time.Duration, onChange func(userIDs []string)) {
	log := utils.Log()
	log.Info("[PlanSync] starting plan polling", zap.Duration("interval", pollInterval))
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("[PlanSync] plan polling stopped")
			return
		case <-ticker.C:
			tickTime := time.Now().UTC()

			plans, err := client.GetChangedPlans(ctx, lastSyncTime)
			if err != nil {
				log.Error("❌ [PlanSync] error polling plans", zap.Error(err))
				continue
			}
			if len(plans) == 0 {
				continue
			}

			if err := UpsertPlans(db, plans); err != nil {
				// keep lastSyncTime so the same window is retried next tick
				log.Error("❌ [PlanSync] failed to upsert plans", zap.Int("count", len(plans)), zap.Error(err))
				continue
			}

			lastSyncTime = tickTime
			userIDs := make([]string, 0, len(plans))
			for _, p := range plans {
				userIDs = append(userIDs, p.UserID)
			}
			if onChange != nil {
				onChange(userIDs)
			}
			log.Info("✅ [PlanSync] upserted plans", zap.Int("count", len(plans)))
		}
	}
}
