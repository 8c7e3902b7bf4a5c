package utils

import "testing"

func TestGenerateIDShape(t *testing.T) {
	id := GenerateID()
	if len(id) != 16 {
		t.Errorf("id length = %d, want 16 hex chars", len(id))
	}
	if id == GenerateID() {
		t.Error("two ids collided")
	}
}

func TestStringToSeedDeterministic(t *testing.T) {
	if StringToSeed("user-42") != StringToSeed("user-42") {
		t.Error("seed is not stable for the same input")
	}
	if StringToSeed("user-42") == StringToSeed("user-43") {
		t.Error("different inputs produced the same seed")
	}
}

func TestNewRandReproducible(t *testing.T) {
	a, b := NewRand("alpha"), NewRand("alpha")
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed produced diverging sequences")
		}
	}
}
