package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"workflow-platform/pkg/models"
)

// Logger is the subset of the application logger used by the cache.
type Logger interface {
	Warn(msg string, args ...any)
}

// CachedRepository keeps a read-through Redis copy of workflow
// definitions in front of another Repository. Cache failures fall back to
// the wrapped repository.
type CachedRepository struct {
	Repository
	redis  *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCachedRepository wraps repo with a Redis cache whose entries live for ttl.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration, logger Logger) *CachedRepository {
	return &CachedRepository{Repository: repo, redis: client, ttl: ttl, logger: logger}
}

func workflowKey(id string) string {
	return "workflow:" + id
}

// GetWorkflow returns the cached workflow or loads and caches it.
func (c *CachedRepository) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	val, err := c.redis.Get(ctx, workflowKey(id)).Bytes()
	switch {
	case err == nil:
		var wf models.Workflow
		if err := json.Unmarshal(val, &wf); err == nil {
			return &wf, nil
		}
		c.logger.Warn("discarding undecodable cached workflow", "workflow_id", id)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("workflow cache read failed", "workflow_id", id, "error", err)
	}

	wf, err := c.Repository.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}
	bs, _ := json.Marshal(wf)
	if err := c.redis.Set(ctx, workflowKey(id), bs, c.ttl).Err(); err != nil {
		c.logger.Warn("workflow cache write failed", "workflow_id", id, "error", err)
	}
	return wf, nil
}

// UpdateWorkflow updates the wrapped repository and evicts the cached copy.
func (c *CachedRepository) UpdateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if err := c.Repository.UpdateWorkflow(ctx, wf); err != nil {
		return err
	}
	if err := c.redis.Del(ctx, workflowKey(wf.ID)).Err(); err != nil {
		c.logger.Warn("workflow cache eviction failed", "workflow_id", wf.ID, "error", err)
	}
	return nil
}
