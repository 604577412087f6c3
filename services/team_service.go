package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hansol-dev/leaguedesk/grid"
	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
)

type CreateTeamInput struct {
	Category   string `json:"category"`
	Group      string `json:"group"`
	SchoolName string `json:"school_name"`
	HeadCoach  string `json:"headcoach"`
	Status     string `json:"status"`
	Details    string `json:"details"`
}

type TeamService interface {
	RegisterTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context, category, search string) ([]models.Team, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateTeamField(ctx context.Context, id int, field, value string) error
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	hub      ChangeBroadcaster
}

func NewTeamService(teamRepo repositories.TeamRepository, hub ChangeBroadcaster) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		hub:      hub,
	}
}

func (s *teamService) RegisterTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	schoolName := strings.TrimSpace(input.SchoolName)
	if schoolName == "" {
		return nil, ErrSchoolNameRequired
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, ErrCategoryRequired
	}

	team := &models.Team{
		Category:   strings.TrimSpace(input.Category),
		Group:      strings.TrimSpace(input.Group),
		SchoolName: schoolName,
		HeadCoach:  strings.TrimSpace(input.HeadCoach),
		Status:     strings.TrimSpace(input.Status),
		Details:    input.Details,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	s.hub.Broadcast(EventTeamsChanged)
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, category, search string) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, repositories.TeamFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return grid.Filter(teams, search, func(t models.Team) []string {
		return []string{t.SchoolName, t.Category, t.HeadCoach}
	}), nil
}

func (s *teamService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.teamRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *teamService) UpdateTeamField(ctx context.Context, id int, field, value string) error {
	err := s.teamRepo.UpdateField(ctx, id, field, value)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamInvalidField):
			return fmt.Errorf("%w: %q", ErrFieldNotEditable, field)
		default:
			return fmt.Errorf("failed to update team %d: %w", id, err)
		}
	}
	s.hub.Broadcast(EventTeamsChanged)
	return nil
}

// DeleteTeam removes the team row only. Roster members and match entries
// keep their team_id and show up with the unknown-team placeholder until
// someone reassigns or deletes them.
func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	s.hub.Broadcast(EventTeamsChanged)
	return nil
}
