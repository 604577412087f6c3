package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
	"github.com/hansol-dev/leaguedesk/selection"
	"golang.org/x/sync/errgroup"
)

// PhotoUpload carries an incoming photo file through the service layer.
type PhotoUpload struct {
	ContentType string
	Data        io.Reader
}

type RegisterGameInput struct {
	// GameID groups the home and away entries of one fixture. Leave empty
	// to mint a fresh one.
	GameID    string
	GameTitle string
	Side      models.MatchSide
	TeamID    int
	Details   string
	GameTime  time.Time
	Photo     *PhotoUpload
}

type RegistrationService interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListGameTitles(ctx context.Context) ([]string, error)
	RegisterGame(ctx context.Context, input RegisterGameInput) (*models.MatchEntry, error)
	RegisterFixture(ctx context.Context, home, away RegisterGameInput) ([]*models.MatchEntry, error)
	TeamCascade(onNotice func(selection.Notice)) *selection.Cascade[models.Team, TeamDetail]
}

type registrationService struct {
	matchRepo repositories.MatchEntryRepository
	teamRepo  repositories.TeamRepository
	roster    RosterService
	photos    *PhotoService
	hub       ChangeBroadcaster
}

func NewRegistrationService(
	matchRepo repositories.MatchEntryRepository,
	teamRepo repositories.TeamRepository,
	roster RosterService,
	photos *PhotoService,
	hub ChangeBroadcaster,
) RegistrationService {
	return &registrationService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		roster:    roster,
		photos:    photos,
		hub:       hub,
	}
}

func (s *registrationService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.teamRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *registrationService) ListGameTitles(ctx context.Context) ([]string, error) {
	titles, err := s.matchRepo.ListGameTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game titles: %w", err)
	}
	return titles, nil
}

// RegisterGame creates one match entry. When a photo is supplied it is
// uploaded first and the entry is only inserted once the upload succeeded,
// so no entry ever references an asset that does not exist.
func (s *registrationService) RegisterGame(ctx context.Context, input RegisterGameInput) (*models.MatchEntry, error) {
	if err := validateRegisterGameInput(input); err != nil {
		return nil, err
	}

	gameID := input.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	var photoURL *string
	if input.Photo != nil {
		url, err := s.photos.Attach(ctx, input.TeamID, input.Photo.ContentType, input.Photo.Data)
		if err != nil {
			return nil, err
		}
		photoURL = &url
	}

	entry := &models.MatchEntry{
		GameID:    gameID,
		GameTitle: strings.TrimSpace(input.GameTitle),
		Side:      input.Side,
		TeamID:    input.TeamID,
		Details:   input.Details,
		GameTime:  input.GameTime,
		PhotoURL:  photoURL,
	}
	if err := s.matchRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to register game: %w", err)
	}
	s.hub.Broadcast(EventRecordsChanged)
	return entry, nil
}

// RegisterFixture registers the home and away entries of one fixture under
// a single minted game id. The two inserts run concurrently; if either
// fails the other may still have been created, which the refetch surfaces.
func (s *registrationService) RegisterFixture(ctx context.Context, home, away RegisterGameInput) ([]*models.MatchEntry, error) {
	gameID := uuid.NewString()
	home.GameID = gameID
	home.Side = models.SideHome
	away.GameID = gameID
	away.Side = models.SideAway

	entries := make([]*models.MatchEntry, 2)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entry, err := s.RegisterGame(gctx, home)
		if err != nil {
			return fmt.Errorf("home side: %w", err)
		}
		entries[0] = entry
		return nil
	})
	g.Go(func() error {
		entry, err := s.RegisterGame(gctx, away)
		if err != nil {
			return fmt.Errorf("away side: %w", err)
		}
		entries[1] = entry
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// TeamCascade is the registration flow's category -> school -> detail
// selector. It shares the roster service's sources: same listing policy,
// same parallel head-coach/roster detail fetch.
func (s *registrationService) TeamCascade(onNotice func(selection.Notice)) *selection.Cascade[models.Team, TeamDetail] {
	return s.roster.TeamCascade(onNotice)
}

func validateRegisterGameInput(input RegisterGameInput) error {
	if strings.TrimSpace(input.GameTitle) == "" {
		return ErrGameTitleRequired
	}
	if !input.Side.Valid() {
		return ErrInvalidSide
	}
	if input.TeamID <= 0 {
		return ErrTeamRequired
	}
	if input.GameTime.IsZero() {
		return ErrGameTimeRequired
	}
	return nil
}
