package store

import (
	"context"
	"testing"

	"github.com/anvule/columbarium-reservation/internal/model"
)

func TestMergeIncrementsQuantityKeepsRow(t *testing.T) {
	existing := model.CartItem{ID: 4, Name: "Hoa cúc trắng", Price: 50000, Quantity: 1, Image: "https://cdn.example/4.jpg"}
	incoming := model.CartItem{ID: 4, Name: "Hoa cúc trắng", Price: 50000, Quantity: 2}

	merged := Merge(existing, incoming)
	if merged.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", merged.Quantity)
	}
	if merged.Name != existing.Name || merged.Price != existing.Price || merged.Image != existing.Image {
		t.Fatal("merge must keep the existing row's descriptive fields")
	}
}

func TestNilClientDegrades(t *testing.T) {
	s := NewCartStore(nil)
	ctx := context.Background()
	if _, err := s.Add(ctx, 1, model.CartItem{ID: 1, Quantity: 1}); err != ErrCartUnavailable {
		t.Fatalf("Add err = %v, want ErrCartUnavailable", err)
	}
	if _, err := s.List(ctx, 1); err != ErrCartUnavailable {
		t.Fatalf("List err = %v, want ErrCartUnavailable", err)
	}
	if err := s.Remove(ctx, 1, 1); err != ErrCartUnavailable {
		t.Fatalf("Remove err = %v, want ErrCartUnavailable", err)
	}
	if err := s.Clear(ctx, 1); err != ErrCartUnavailable {
		t.Fatalf("Clear err = %v, want ErrCartUnavailable", err)
	}
}
