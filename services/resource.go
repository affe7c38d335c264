package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/interviewgenius/interview_api/dto"
	"github.com/interviewgenius/interview_api/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	RESOURCE_SVC = "resource_svc"

	curatedCacheKey = "resources:curated"
	curatedCacheTTL = time.Hour
)

type ResourceService struct {
	appContext.DefaultService

	dbSvc     *DatabaseService
	redisSvc  *RedisService
	generator Generator
}

func NewResourceService(dbSvc *DatabaseService, redisSvc *RedisService, generator Generator) *ResourceService {
	return &ResourceService{dbSvc: dbSvc, redisSvc: redisSvc, generator: generator}
}

func (svc ResourceService) Id() string {
	return RESOURCE_SVC
}

func (svc *ResourceService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ResourceService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.generator = svc.Service(GEMINI_SVC).(*GeminiService)
	return nil
}

func (svc *ResourceService) ListResources(filter dto.ResourceFilter) ([]dto.ResourceResponse, error) {
	resources, err := svc.dbSvc.Resources().ListResources(filter.Domain, filter.Difficulty, filter.Type)
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	responses := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		responses = append(responses, resourceResponse(&resources[i]))
	}
	return responses, nil
}

// GetCuratedResources asks for all three lists at once. If any of them fails
// every list is replaced by its fallback.
func (svc *ResourceService) GetCuratedResources(ctx context.Context) (*dto.CuratedResourcesResponse, error) {
	var cached dto.CuratedResourcesResponse
	if found, err := svc.redisSvc.GetJSON(ctx, curatedCacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil && !errors.Is(err, ErrCacheDisabled) {
		log.WithError(err).Warn("Curated resources cache read failed")
	}

	var leetcode, gfg, articles []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leetcode, err = GenerateResourceList(gctx, svc.generator, ResourceKindLeetCode)
		return err
	})
	g.Go(func() (err error) {
		gfg, err = GenerateResourceList(gctx, svc.generator, ResourceKindGFG)
		return err
	})
	g.Go(func() (err error) {
		articles, err = GenerateResourceList(gctx, svc.generator, ResourceKindArticles)
		return err
	})

	if err := g.Wait(); err != nil {
		for _, kind := range []string{ResourceKindLeetCode, ResourceKindGFG, ResourceKindArticles} {
			RecordGeneration(kind, GenerationOutcomeFallback)
		}
		if !errors.Is(err, ErrGenerationDisabled) {
			log.WithError(err).Warn("Resource generation failed")
		}
		return fallbackCuratedResources(err), nil
	}

	for _, kind := range []string{ResourceKindLeetCode, ResourceKindGFG, ResourceKindArticles} {
		RecordGeneration(kind, GenerationOutcomeOK)
	}

	resp := &dto.CuratedResourcesResponse{
		LeetCode: toCuratedItems(leetcode),
		GFG:      toCuratedItems(gfg),
		Articles: toCuratedItems(articles),
	}

	if err := svc.redisSvc.Set(ctx, curatedCacheKey, resp, curatedCacheTTL); err != nil && !errors.Is(err, ErrCacheDisabled) {
		log.WithError(err).Warn("Curated resources cache write failed")
	}

	return resp, nil
}

func resourceResponse(resource *model.Resource) dto.ResourceResponse {
	tags := []string{}
	if len(resource.Tags) > 0 {
		_ = json.Unmarshal(resource.Tags, &tags)
	}
	return dto.ResourceResponse{
		ID:          resource.ID,
		Title:       resource.Title,
		Description: resource.Description,
		Type:        resource.Type,
		URL:         resource.URL,
		Domain:      resource.Domain,
		Difficulty:  resource.Difficulty,
		Tags:        tags,
		Rating:      resource.Rating,
	}
}
