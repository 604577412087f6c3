package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hansol-dev/leaguedesk/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistrationService(matchRepo *fakeMatchRepo, teamRepo *fakeTeamRepo, uploader *fakeUploader, hub *fakeHub) RegistrationService {
	rosterRepo := newFakeRosterRepo()
	roster := NewRosterService(rosterRepo, teamRepo, hub)
	photos := NewPhotoService(uploader, clockwork.NewRealClock(), discardLogger())
	return NewRegistrationService(matchRepo, teamRepo, roster, photos, hub)
}

func validGameInput(teamID int) RegisterGameInput {
	return RegisterGameInput{
		GameTitle: "Spring Cup",
		Side:      models.SideHome,
		TeamID:    teamID,
		GameTime:  time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC),
	}
}

func TestRegisterGameMintsGameID(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	hub := &fakeHub{}
	svc := newTestRegistrationService(matchRepo, newFakeTeamRepo(&models.Team{ID: 3}), newFakeUploader(), hub)

	entry, err := svc.RegisterGame(context.Background(), validGameInput(3))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.GameID)
	assert.Equal(t, []string{EventRecordsChanged}, hub.Events())
}

func TestRegisterGameKeepsSuppliedGameID(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	svc := newTestRegistrationService(matchRepo, newFakeTeamRepo(&models.Team{ID: 3}), newFakeUploader(), &fakeHub{})

	input := validGameInput(3)
	input.GameID = "fixture-42"
	entry, err := svc.RegisterGame(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "fixture-42", entry.GameID)
}

func TestRegisterGameValidation(t *testing.T) {
	svc := newTestRegistrationService(newFakeMatchRepo(), newFakeTeamRepo(), newFakeUploader(), &fakeHub{})
	ctx := context.Background()

	input := validGameInput(3)
	input.GameTitle = "  "
	_, err := svc.RegisterGame(ctx, input)
	assert.ErrorIs(t, err, ErrGameTitleRequired)

	input = validGameInput(3)
	input.Side = "center"
	_, err = svc.RegisterGame(ctx, input)
	assert.ErrorIs(t, err, ErrInvalidSide)

	input = validGameInput(0)
	_, err = svc.RegisterGame(ctx, input)
	assert.ErrorIs(t, err, ErrTeamRequired)

	input = validGameInput(3)
	input.GameTime = time.Time{}
	_, err = svc.RegisterGame(ctx, input)
	assert.ErrorIs(t, err, ErrGameTimeRequired)
}

func TestRegisterGameUploadsPhotoBeforeInsert(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	uploader := newFakeUploader()
	svc := newTestRegistrationService(matchRepo, newFakeTeamRepo(&models.Team{ID: 3}), uploader, &fakeHub{})

	input := validGameInput(3)
	input.Photo = &PhotoUpload{ContentType: "image/jpeg", Data: strings.NewReader("jpg")}
	entry, err := svc.RegisterGame(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, entry.PhotoURL)
	assert.Len(t, uploader.uploads, 1)
}

func TestRegisterGameNoInsertOnUploadFailure(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	uploader := newFakeUploader()
	uploader.uploadErr = errors.New("bucket unreachable")
	svc := newTestRegistrationService(matchRepo, newFakeTeamRepo(&models.Team{ID: 3}), uploader, &fakeHub{})

	input := validGameInput(3)
	input.Photo = &PhotoUpload{ContentType: "image/jpeg", Data: strings.NewReader("jpg")}
	_, err := svc.RegisterGame(context.Background(), input)
	require.ErrorIs(t, err, ErrPhotoUploadFailed)
	assert.Empty(t, matchRepo.created, "no record may reference an asset that was never stored")
}

func TestRegisterFixtureSharesGameID(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	teamRepo := newFakeTeamRepo(&models.Team{ID: 3}, &models.Team{ID: 4})
	svc := newTestRegistrationService(matchRepo, teamRepo, newFakeUploader(), &fakeHub{})

	home := validGameInput(3)
	away := validGameInput(4)
	entries, err := svc.RegisterFixture(context.Background(), home, away)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, entries[0].GameID, entries[1].GameID)
	assert.NotEmpty(t, entries[0].GameID)
	assert.Equal(t, models.SideHome, entries[0].Side)
	assert.Equal(t, models.SideAway, entries[1].Side)
	assert.Equal(t, 3, entries[0].TeamID)
	assert.Equal(t, 4, entries[1].TeamID)
}

func TestRegisterFixturePropagatesSideFailure(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	matchRepo.createErr = errors.New("insert failed")
	svc := newTestRegistrationService(matchRepo, newFakeTeamRepo(&models.Team{ID: 3}, &models.Team{ID: 4}), newFakeUploader(), &fakeHub{})

	_, err := svc.RegisterFixture(context.Background(), validGameInput(3), validGameInput(4))
	require.Error(t, err)
}
