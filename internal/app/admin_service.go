package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/clock"
	"github.com/ncarvajalc/Proyecto-final-MISO-202520-G2-sub001/internal/domain"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client domain.InstitutionalClient) error
	ListClients(ctx context.Context) ([]domain.InstitutionalClient, error)
}

// AdminService covers the minimal institutional-client registry needed to
// operate the order API stand-alone.
type AdminService struct {
	repo  ClientRepository
	clock clock.Clock
}

func NewAdminService(repo ClientRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type RegisterClientInput struct {
	Name string
}

func (s *AdminService) RegisterClient(ctx context.Context, in RegisterClientInput) (domain.InstitutionalClient, error) {
	if in.Name == "" {
		return domain.InstitutionalClient{}, domain.ErrClientNameRequired
	}

	client := domain.InstitutionalClient{
		ID:        uuid.NewString(),
		Name:      in.Name,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return domain.InstitutionalClient{}, err
	}
	return client, nil
}

func (s *AdminService) ListClients(ctx context.Context) ([]domain.InstitutionalClient, error) {
	return s.repo.ListClients(ctx)
}
