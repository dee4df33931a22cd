package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"angido/internal/models/db_models"
	"angido/internal/models/request_models"
	"angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

type TagServiceInterface interface {
	GetAllTags(page int, pageSize int, ctx context.Context) (*utils.PagedData, error)
	CreateTag(request request_models.CreateTagRequest, ctx context.Context) (*response_models.TagResponse, error)
}

type TagService struct {
	tagRepo repositories.TagRepositoryInterface
	log     *zap.Logger
}

func NewTagService(tagRepo repositories.TagRepositoryInterface, log *zap.Logger) TagServiceInterface {
	return &TagService{
		tagRepo: tagRepo,
		log:     log,
	}
}

func (t *TagService) GetAllTags(page int, pageSize int, ctx context.Context) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}

	tags, total, err := t.tagRepo.GetAllTags(page, pageSize, ctx)
	if err != nil {
		t.log.Error("list tags", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	tagResponses := make([]response_models.TagResponse, 0, len(tags))
	for i := range tags {
		tagResponses = append(tagResponses, toTagResponse(&tags[i]))
	}

	return &utils.PagedData{Items: tagResponses, Page: page, PageSize: pageSize, Total: total}, nil
}

func (t *TagService) CreateTag(request request_models.CreateTagRequest, ctx context.Context) (*response_models.TagResponse, error) {
	en := strings.TrimSpace(request.En)
	vi := strings.TrimSpace(request.Vi)
	if en == "" || vi == "" {
		return nil, utils.ErrInvalidInput
	}

	exists, err := t.tagRepo.ExistsByName(ctx, en, vi)
	if err != nil {
		t.log.Error("check tag", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if exists {
		return nil, utils.ErrTagAlreadyExists
	}

	tag := &db_models.Tag{EnName: en, ViName: vi, Icon: strings.TrimSpace(request.Icon)}
	if err := t.tagRepo.CreateTag(tag, ctx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrTagAlreadyExists
		}
		t.log.Error("create tag", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := toTagResponse(tag)
	return &out, nil
}
