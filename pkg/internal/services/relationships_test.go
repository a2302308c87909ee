package services

import (
	"errors"
	"testing"
)

func TestToggleFollowPairsBothSides(t *testing.T) {
	useTestDatabase(t)

	alice, _ := NewAccount("alice", "a@x.com", "Secret123", "Secret123")
	bob, _ := NewAccount("bob", "b@x.com", "Secret123", "Secret123")

	relation, err := ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if relation != RelationFollowed {
		t.Fatalf("expected %q, got %q", RelationFollowed, relation)
	}

	// The same edge must be visible from both directions.
	if count := CountFollowing(alice.ID); count != 1 {
		t.Fatalf("alice following count = %d, want 1", count)
	}
	if count := CountFollowers(bob.ID); count != 1 {
		t.Fatalf("bob follower count = %d, want 1", count)
	}
	if count := CountFollowers(alice.ID); count != 0 {
		t.Fatalf("alice follower count = %d, want 0", count)
	}
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	useTestDatabase(t)

	alice, _ := NewAccount("alice", "a@x.com", "Secret123", "Secret123")
	bob, _ := NewAccount("bob", "b@x.com", "Secret123", "Secret123")

	if _, err := ToggleFollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	relation, err := ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if relation != RelationUnfollowed {
		t.Fatalf("expected %q, got %q", RelationUnfollowed, relation)
	}

	if count := CountFollowing(alice.ID); count != 0 {
		t.Fatalf("alice following count = %d, want 0", count)
	}
	if count := CountFollowers(bob.ID); count != 0 {
		t.Fatalf("bob follower count = %d, want 0", count)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	useTestDatabase(t)

	alice, _ := NewAccount("alice", "a@x.com", "Secret123", "Secret123")

	if _, err := ToggleFollow(alice.ID, alice.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if count := CountFollowing(alice.ID); count != 0 {
		t.Fatalf("self toggle must not create an edge, found %d", count)
	}
}

func TestToggleFollowMissingTarget(t *testing.T) {
	useTestDatabase(t)

	alice, _ := NewAccount("alice", "a@x.com", "Secret123", "Secret123")

	if _, err := ToggleFollow(alice.ID, alice.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFollowGraphScenario(t *testing.T) {
	useTestDatabase(t)

	alice, _ := NewAccount("alice", "a@x.com", "Secret123", "Secret123")
	bob, _ := NewAccount("bob", "b@x.com", "Secret123", "Secret123")
	carol, _ := NewAccount("carol", "c@x.com", "Secret123", "Secret123")

	mustToggle := func(actor, target uint) {
		t.Helper()
		if _, err := ToggleFollow(actor, target); err != nil {
			t.Fatalf("toggle %d -> %d: %v", actor, target, err)
		}
	}

	mustToggle(alice.ID, bob.ID)
	mustToggle(carol.ID, bob.ID)
	mustToggle(bob.ID, alice.ID)
	mustToggle(alice.ID, bob.ID) // alice changes her mind

	if count := CountFollowers(bob.ID); count != 1 {
		t.Fatalf("bob follower count = %d, want 1", count)
	}
	if count := CountFollowing(carol.ID); count != 1 {
		t.Fatalf("carol following count = %d, want 1", count)
	}
	if count := CountFollowers(alice.ID); count != 1 {
		t.Fatalf("alice follower count = %d, want 1", count)
	}
	if count := CountFollowing(alice.ID); count != 0 {
		t.Fatalf("alice following count = %d, want 0", count)
	}

	followers, err := ListFollowers(bob.ID)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 1 || followers[0].Name != "carol" {
		t.Fatalf("bob followers = %+v, want carol only", followers)
	}
}
