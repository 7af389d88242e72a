package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	notifier Notifier
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, notifier Notifier, observers ...UseCaseObserver) ProjectService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &projectService{projects: projects, notifier: notifier, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	ctx, done := useCase(ctx, s.observer, "create-project", map[string]any{"name": p.Name})
	defer func() { done(err) }()

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalidf("project name is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if err = s.projects.Create(ctx, p); err != nil {
		return err
	}
	s.notifier.Notify(ctx, contract.Change{Type: contract.ProjectCreated, Topic: contract.TopicProjects, ProjectID: p.ID, Data: contract.FromProject(p)})
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, id string, patch ProjectPatch) (p *domain.Project, err error) {
	ctx, done := useCase(ctx, s.observer, "update-project", map[string]any{"project_id": id})
	defer func() { done(err) }()

	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidf("project name must not be blank")
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	p.UpdatedAt = nowUTC()
	if err = s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	if patch.Archived != nil && *patch.Archived != p.IsArchived() {
		if *patch.Archived {
			err = s.projects.Archive(ctx, id)
		} else {
			err = s.projects.Unarchive(ctx, id)
		}
		if err != nil {
			return nil, err
		}
		if p, err = s.projects.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	s.notifier.Notify(ctx, contract.Change{Type: contract.ProjectUpdated, Topic: contract.TopicProjects, ProjectID: p.ID, Data: contract.FromProject(p)})
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	ctx, done := useCase(ctx, s.observer, "delete-project", map[string]any{"project_id": id, "force": force})
	defer func() { done(err) }()

	if !force {
		var p *domain.Project
		p, err = s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsArchived() {
			return fmt.Errorf("%w: project must be archived before deletion (use --force to override)", ErrInvalidInput)
		}
	}
	if err = s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, contract.Change{Type: contract.ProjectDeleted, Topic: contract.TopicProjects, ProjectID: id, Data: map[string]string{"id": id}})
	return nil
}
