package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/infrastructure/repository/memory"
)

func TestDirectoryService_BuildMergesStoredPositions(t *testing.T) {
	provider := &fakeProvider{
		index: []ExternalPlayer{
			{ID: 1, FullName: "Alpha One", FirstName: "Alpha", LastName: "One"},
			{ID: 2, FullName: "Beta Two", FirstName: "Beta", LastName: "Two"},
		},
		profiles: map[int64]ExternalPlayerProfile{
			1: {ID: 1, Position: "Guard"},
			// player 2's profile fetch degrades to empty
		},
	}
	players := memory.NewPlayerRepository([]player.Player{
		{ID: 2, FullName: "Beta Two", Position: "Center", Season: "2023-24"},
	})

	svc := NewDirectoryService(provider, players, nil, 2)
	merged, err := svc.Build(context.Background(), "2023-24")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("expected 2 players, got %d", len(merged))
	}
	if merged[0].Position != "Guard" {
		t.Errorf("expected fresh position, got %q", merged[0].Position)
	}
	if merged[1].Position != "Center" {
		t.Errorf("expected stored position carried forward, got %q", merged[1].Position)
	}

	stored, err := players.ListBySeason(context.Background(), "2023-24")
	if err != nil {
		t.Fatalf("list stored: %v", err)
	}
	if len(stored) != 2 || stored[1].Position != "Center" {
		t.Fatalf("expected merged snapshot persisted, got %+v", stored)
	}
}

func TestDirectoryService_BuildCarriesPositionsAcrossSeasons(t *testing.T) {
	// First build after the season rollover: nothing stored for 2024-25 yet,
	// and the profile fetch degrades to empty.
	provider := &fakeProvider{
		index: []ExternalPlayer{
			{ID: 1, FullName: "Alpha One", FirstName: "Alpha", LastName: "One"},
		},
	}
	players := memory.NewPlayerRepository([]player.Player{
		{ID: 1, FullName: "Alpha One", Position: "Guard", Season: "2023-24"},
	})

	svc := NewDirectoryService(provider, players, nil, 2)
	merged, err := svc.Build(context.Background(), "2024-25")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(merged) != 1 {
		t.Fatalf("expected 1 player, got %d", len(merged))
	}
	if merged[0].Position != "Guard" {
		t.Fatalf("expected last season's position carried forward, got %q", merged[0].Position)
	}

	stored, err := players.ListBySeason(context.Background(), "2024-25")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected persisted snapshot, got %d err=%v", len(stored), err)
	}
	if stored[0].Position != "Guard" {
		t.Fatalf("expected carried position persisted, got %q", stored[0].Position)
	}
}

func TestDirectoryService_BuildFailsOnEmptyIndex(t *testing.T) {
	svc := NewDirectoryService(&fakeProvider{}, memory.NewPlayerRepository(nil), nil, 2)
	_, err := svc.Build(context.Background(), "2023-24")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
