package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/data/repos"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type TenantService interface {
	ListCompanies(dbc dbctx.Context) ([]*types.Company, error)
	ListTones(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Tone, error)
}

type tenantService struct {
	log       *logger.Logger
	companies repos.CompanyRepo
	tones     repos.ToneRepo
}

func NewTenantService(baseLog *logger.Logger, companyRepo repos.CompanyRepo, toneRepo repos.ToneRepo) TenantService {
	return &tenantService{
		log:       baseLog.With("service", "TenantService"),
		companies: companyRepo,
		tones:     toneRepo,
	}
}

func (s *tenantService) ListCompanies(dbc dbctx.Context) ([]*types.Company, error) {
	return s.companies.List(dbc)
}

func (s *tenantService) ListTones(dbc dbctx.Context, companyID uuid.UUID) ([]*types.Tone, error) {
	if _, err := requireCompany(dbc, s.companies, companyID); err != nil {
		return nil, err
	}
	return s.tones.ListByCompany(dbc, companyID)
}

func requireCompany(dbc dbctx.Context, companies repos.CompanyRepo, companyID uuid.UUID) (*types.Company, error) {
	if companyID == uuid.Nil {
		return nil, invalidf("company_id is required")
	}
	c, err := companies.GetByID(dbc, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFoundf("company %s", companyID)
	}
	return c, nil
}
