package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hansol-dev/leaguedesk/grid"
	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
)

// Entity kinds joined into one record-grid row.
const (
	KindMatchEntry grid.EntityKind = "match_entry"
	KindTeam       grid.EntityKind = "team"
)

// UnknownFieldMarker is rendered for team-owned cells whose team no longer
// exists. Rows degrade, they never error.
const UnknownFieldMarker = "N/A"

// RecordRouting is the static field -> entity table for the match-record
// grid. game_title, gametime and details live on the match entry; category,
// school name, head coach and group live on the joined team.
func RecordRouting() grid.Routing {
	return grid.Routing{
		"game_title": KindMatchEntry,
		"gametime":   KindMatchEntry,
		"details":    KindMatchEntry,
		"side":       KindMatchEntry,

		"category":    KindTeam,
		"school_name": KindTeam,
		"headcoach":   KindTeam,
		"team_group":  KindTeam,
	}
}

// gameTimeLayouts are the accepted formats for inline gametime edits: RFC
// 3339 plus the shapes a datetime-local input produces.
var gameTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// RecordRow is one rendered grid row: a match entry left-joined with its
// team, with team fields degraded to the unknown marker when the join
// found nothing.
type RecordRow struct {
	ID        int              `json:"id"`
	GameID    string           `json:"game_id"`
	GameTitle string           `json:"game_title"`
	GameTime  time.Time        `json:"gametime"`
	Side      models.MatchSide `json:"side"`
	Details   string           `json:"details"`
	PhotoURL  *string          `json:"photo,omitempty"`

	TeamID      int    `json:"team_id"`
	TeamMissing bool   `json:"team_missing"`
	Category    string `json:"category"`
	SchoolName  string `json:"school_name"`
	HeadCoach   string `json:"headcoach"`
	Group       string `json:"group"`
}

// Binding ties the row back to the entities a cell edit may target. A row
// with a missing team exposes no team target, so team-owned cells refuse to
// open instead of misrouting.
func (r RecordRow) Binding() grid.RowBinding {
	targets := map[grid.EntityKind]int{KindMatchEntry: r.ID}
	if !r.TeamMissing {
		targets[KindTeam] = r.TeamID
	}
	return grid.RowBinding{RowID: r.ID, Targets: targets}
}

type RecordService interface {
	ListRows(ctx context.Context, search string) ([]RecordRow, error)
	NewEditor() *grid.Coordinator
	SaveCell(ctx context.Context, rowID int, field, value string) error
	AttachPhoto(ctx context.Context, recordID int, contentType string, r io.Reader) (string, error)
	DeleteEntry(ctx context.Context, recordID int) error
}

type recordService struct {
	matchRepo repositories.MatchEntryRepository
	teamRepo  repositories.TeamRepository
	photos    *PhotoService
	hub       ChangeBroadcaster
	logger    *slog.Logger
}

func NewRecordService(
	matchRepo repositories.MatchEntryRepository,
	teamRepo repositories.TeamRepository,
	photos *PhotoService,
	hub ChangeBroadcaster,
	logger *slog.Logger,
) RecordService {
	return &recordService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		photos:    photos,
		hub:       hub,
		logger:    logger,
	}
}

// ListRows returns the grid view: entries newest first, searched over game
// title, school name and category.
func (s *recordService) ListRows(ctx context.Context, search string) ([]RecordRow, error) {
	entries, err := s.matchRepo.ListWithTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}

	rows := make([]RecordRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, rowFromEntry(entry))
	}
	return grid.Filter(rows, search, func(r RecordRow) []string {
		return []string{r.GameTitle, r.SchoolName, r.Category}
	}), nil
}

// NewEditor builds the grid's edit coordinator: the record routing table,
// this service as the patcher, and a change broadcast as the post-save
// refresh signal.
func (s *recordService) NewEditor() *grid.Coordinator {
	return grid.NewCoordinator(RecordRouting(), s, func(ctx context.Context) {
		s.hub.Broadcast(EventRecordsChanged)
	})
}

// SaveCell performs a complete open -> save edit of one cell, used by the
// stateless HTTP surface. Session-scoped callers hold a NewEditor instead.
func (s *recordService) SaveCell(ctx context.Context, rowID int, field, value string) error {
	entry, err := s.matchRepo.GetByID(ctx, rowID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchEntryNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to load record %d: %w", rowID, err)
	}

	binding := grid.RowBinding{
		RowID: entry.ID,
		Targets: map[grid.EntityKind]int{
			KindMatchEntry: entry.ID,
			KindTeam:       entry.TeamID,
		},
	}

	editor := s.NewEditor()
	if err := editor.Open(binding, field, value); err != nil {
		if errors.Is(err, grid.ErrFieldUnknown) {
			return fmt.Errorf("%w: %q", ErrFieldNotEditable, field)
		}
		return err
	}
	return editor.Save(ctx)
}

// Patch routes a single-field write to the entity that owns the field. It
// is the grid.Patcher behind every record-grid editor.
func (s *recordService) Patch(ctx context.Context, kind grid.EntityKind, entityID int, field, value string) error {
	switch kind {
	case KindTeam:
		if err := s.teamRepo.UpdateField(ctx, entityID, field, value); err != nil {
			switch {
			case errors.Is(err, repositories.ErrTeamNotFound):
				return ErrTeamNotFound
			case errors.Is(err, repositories.ErrTeamInvalidField):
				return fmt.Errorf("%w: %q", ErrFieldNotEditable, field)
			default:
				return fmt.Errorf("failed to patch team %d: %w", entityID, err)
			}
		}
		return nil

	case KindMatchEntry:
		patchValue, err := matchEntryPatchValue(field, value)
		if err != nil {
			return err
		}
		if err := s.matchRepo.UpdateField(ctx, entityID, field, patchValue); err != nil {
			switch {
			case errors.Is(err, repositories.ErrMatchEntryNotFound):
				return ErrRecordNotFound
			case errors.Is(err, repositories.ErrMatchInvalidField):
				return fmt.Errorf("%w: %q", ErrFieldNotEditable, field)
			default:
				return fmt.Errorf("failed to patch record %d: %w", entityID, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown entity kind %q", ErrFieldNotEditable, kind)
	}
}

// AttachPhoto sets or replaces the photo on a match record. The new URL is
// persisted only after the upload succeeded; replacing cleans up the old
// asset best-effort first.
func (s *recordService) AttachPhoto(ctx context.Context, recordID int, contentType string, r io.Reader) (string, error) {
	entry, err := s.matchRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchEntryNotFound) {
			return "", ErrRecordNotFound
		}
		return "", fmt.Errorf("failed to load record %d: %w", recordID, err)
	}

	var url string
	if entry.PhotoURL != nil && *entry.PhotoURL != "" {
		url, err = s.photos.Replace(ctx, entry.ID, *entry.PhotoURL, contentType, r)
	} else {
		url, err = s.photos.Attach(ctx, entry.ID, contentType, r)
	}
	if err != nil {
		return "", err
	}

	if err := s.matchRepo.UpdatePhotoURL(ctx, entry.ID, &url); err != nil {
		// The asset exists but nothing references it; log the orphan.
		s.logger.ErrorContext(ctx, "uploaded photo could not be persisted",
			slog.Int("record_id", entry.ID), slog.String("url", url), slog.Any("error", err))
		return "", fmt.Errorf("failed to persist photo for record %d: %w", entry.ID, err)
	}
	s.hub.Broadcast(EventRecordsChanged)
	return url, nil
}

// DeleteEntry removes a match record and releases its photo asset. The
// asset delete is best-effort: a storage failure never blocks deleting the
// record itself.
func (s *recordService) DeleteEntry(ctx context.Context, recordID int) error {
	entry, err := s.matchRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchEntryNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to load record %d: %w", recordID, err)
	}

	if entry.PhotoURL != nil && *entry.PhotoURL != "" {
		s.photos.Release(ctx, *entry.PhotoURL)
	}

	if err := s.matchRepo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, repositories.ErrMatchEntryNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete record %d: %w", recordID, err)
	}
	s.hub.Broadcast(EventRecordsChanged)
	return nil
}

func rowFromEntry(entry models.MatchEntry) RecordRow {
	row := RecordRow{
		ID:        entry.ID,
		GameID:    entry.GameID,
		GameTitle: entry.GameTitle,
		GameTime:  entry.GameTime,
		Side:      entry.Side,
		Details:   entry.Details,
		PhotoURL:  entry.PhotoURL,
		TeamID:    entry.TeamID,
	}
	if entry.Team == nil {
		row.TeamMissing = true
		row.Category = UnknownFieldMarker
		row.SchoolName = UnknownFieldMarker
		row.HeadCoach = UnknownFieldMarker
		row.Group = UnknownFieldMarker
		return row
	}
	row.Category = entry.Team.Category
	row.SchoolName = entry.Team.SchoolName
	row.HeadCoach = entry.Team.HeadCoach
	row.Group = entry.Team.Group
	return row
}

// ParseGameTime accepts any of the supported gametime formats.
func ParseGameTime(value string) (time.Time, error) {
	for _, layout := range gameTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGameTime, value)
}

func matchEntryPatchValue(field, value string) (any, error) {
	switch field {
	case "gametime":
		t, err := ParseGameTime(value)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "side":
		if !models.MatchSide(value).Valid() {
			return nil, ErrInvalidSide
		}
		return value, nil
	default:
		return value, nil
	}
}
