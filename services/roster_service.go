package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hansol-dev/leaguedesk/grid"
	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
	"github.com/hansol-dev/leaguedesk/selection"
	"golang.org/x/sync/errgroup"
)

// TeamDetail is the dependent detail the team cascade resolves once a team
// is selected: the head coach line and the ordered roster.
type TeamDetail struct {
	HeadCoach string                `json:"headcoach"`
	Roster    []models.RosterMember `json:"roster"`
}

type AddPlayerInput struct {
	TeamID     int    `json:"team_id"`
	PlayerName string `json:"player_name"`
	Number     string `json:"number"`
}

type UpdatePlayerInput struct {
	TeamID     int    `json:"team_id"`
	PlayerName string `json:"player_name"`
	Number     string `json:"number"`
}

type RosterService interface {
	ListPlayers(ctx context.Context, search string) ([]models.RosterMember, error)
	AddPlayer(ctx context.Context, input AddPlayerInput) (*models.RosterMember, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.RosterMember, error)
	DeletePlayer(ctx context.Context, id int) error
	FetchTeamDetail(ctx context.Context, teamID int) (TeamDetail, error)
	TeamCascade(onNotice func(selection.Notice)) *selection.Cascade[models.Team, TeamDetail]
}

type rosterService struct {
	rosterRepo repositories.RosterRepository
	teamRepo   repositories.TeamRepository
	hub        ChangeBroadcaster
}

func NewRosterService(rosterRepo repositories.RosterRepository, teamRepo repositories.TeamRepository, hub ChangeBroadcaster) RosterService {
	return &rosterService{
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		hub:        hub,
	}
}

// ListPlayers returns every roster member joined with its school, filtered
// by the search text over player name and school name.
func (s *rosterService) ListPlayers(ctx context.Context, search string) ([]models.RosterMember, error) {
	members, err := s.rosterRepo.ListWithTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return grid.Filter(members, search, func(m models.RosterMember) []string {
		fields := []string{m.PlayerName}
		if m.Team != nil {
			fields = append(fields, m.Team.SchoolName)
		}
		return fields
	}), nil
}

func (s *rosterService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.RosterMember, error) {
	name := strings.TrimSpace(input.PlayerName)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.TeamID <= 0 {
		return nil, ErrTeamRequired
	}

	member := &models.RosterMember{
		TeamID:     input.TeamID,
		PlayerName: name,
		Number:     strings.TrimSpace(input.Number),
	}
	if err := s.rosterRepo.Create(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrRosterTeamMissing) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	s.hub.Broadcast(EventRosterChanged)
	return member, nil
}

func (s *rosterService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.RosterMember, error) {
	name := strings.TrimSpace(input.PlayerName)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.TeamID <= 0 {
		return nil, ErrTeamRequired
	}

	member := &models.RosterMember{
		ID:         id,
		TeamID:     input.TeamID,
		PlayerName: name,
		Number:     strings.TrimSpace(input.Number),
	}
	if err := s.rosterRepo.Update(ctx, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRosterMemberNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrRosterTeamMissing):
			return nil, ErrTeamNotFound
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}
	s.hub.Broadcast(EventRosterChanged)
	return member, nil
}

func (s *rosterService) DeletePlayer(ctx context.Context, id int) error {
	if err := s.rosterRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRosterMemberNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	s.hub.Broadcast(EventRosterChanged)
	return nil
}

// FetchTeamDetail resolves the selected team's head coach and roster in
// parallel; the cascade uses it as its detail source.
func (s *rosterService) FetchTeamDetail(ctx context.Context, teamID int) (TeamDetail, error) {
	var detail TeamDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		detail.HeadCoach = team.HeadCoach
		return nil
	})
	g.Go(func() error {
		roster, err := s.rosterRepo.ListByTeam(gctx, teamID)
		if err != nil {
			return err
		}
		detail.Roster = roster
		return nil
	})
	if err := g.Wait(); err != nil {
		return TeamDetail{}, err
	}
	return detail, nil
}

// TeamCascade builds the category -> team -> (head coach, roster) selector
// used by the player-creation and player-edit flows. An empty category lists
// every team, matching the original flows.
func (s *rosterService) TeamCascade(onNotice func(selection.Notice)) *selection.Cascade[models.Team, TeamDetail] {
	return selection.NewCascade(selection.Sources[models.Team, TeamDetail]{
		ListEntities: func(ctx context.Context, category string) ([]models.Team, error) {
			return s.teamRepo.List(ctx, repositories.TeamFilter{Category: category})
		},
		FetchDetail: s.FetchTeamDetail,
	}, selection.EmptyListsAll, onNotice)
}
