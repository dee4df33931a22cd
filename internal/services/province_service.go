package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"angido/internal/models/response_models"
	"angido/internal/repositories"
	"angido/pkg/utils"
)

type ProvinceServiceInterface interface {
	ListProvinces(ctx context.Context, q string, page int, pageSize int) (*utils.PagedData, error)
}

type ProvinceService struct {
	provinceRepository repositories.ProvinceRepository
	log                *zap.Logger
}

func NewProvinceService(provinceRepository repositories.ProvinceRepository, log *zap.Logger) ProvinceServiceInterface {
	return &ProvinceService{
		provinceRepository: provinceRepository,
		log:                log,
	}
}

func (p *ProvinceService) ListProvinces(ctx context.Context, q string, page int, pageSize int) (*utils.PagedData, error) {
	if err := utils.ValidatePage(page, pageSize); err != nil {
		return nil, err
	}

	provinces, total, err := p.provinceRepository.SearchByKeyword(ctx, strings.TrimSpace(q), page, pageSize)
	if err != nil {
		p.log.Error("list provinces", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	provinceResponse := make([]response_models.ProvinceResponse, 0, len(provinces))
	for i := range provinces {
		provinceResponse = append(provinceResponse, toProvinceResponse(&provinces[i]))
	}

	return &utils.PagedData{Items: provinceResponse, Page: page, PageSize: pageSize, Total: total}, nil
}
