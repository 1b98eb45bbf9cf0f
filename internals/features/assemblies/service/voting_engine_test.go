package service

import (
	"reflect"
	"testing"

	"condominio_backend/internals/features/assemblies/model"
)

func TestComputeQuorum(t *testing.T) {
	tests := []struct {
		attendees, units int64
		want             float64
	}{
		{4, 10, 40.0},
		{0, 10, 0},
		{3, 0, 0},
		{1, 3, 100.0 / 3},
		{2, 3, 200.0 / 3},
		{29, 50, 58},
		{10, 10, 100},
	}
	for _, tt := range tests {
		if got := ComputeQuorum(tt.attendees, tt.units); got != tt.want {
			t.Errorf("ComputeQuorum(%d, %d) = %v, want %v", tt.attendees, tt.units, got, tt.want)
		}
	}
}

func TestComputeTallyOptions(t *testing.T) {
	opts := []model.VoteOption{{Key: "a"}, {Key: "b"}}
	got := ComputeTally(opts, []string{"a", "a", "b"})

	if !reflect.DeepEqual(got.OptionVotes, map[string]int{"a": 2, "b": 1}) {
		t.Fatalf("option votes = %v", got.OptionVotes)
	}
	if got.TotalVotes != 3 || got.YesVotes != 0 {
		t.Fatalf("total/yes = %d/%d, want 3/0", got.TotalVotes, got.YesVotes)
	}
}

func TestComputeTallyLegacyBuckets(t *testing.T) {
	values := []string{"yes", "Sí", " YES ", "no", "No", "abstain", "Abstención", "maybe", "a"}
	got := ComputeTally([]model.VoteOption{{Key: "a"}}, values)

	if got.YesVotes != 3 || got.NoVotes != 2 || got.AbstainVotes != 2 {
		t.Fatalf("yes/no/abstain = %d/%d/%d, want 3/2/2", got.YesVotes, got.NoVotes, got.AbstainVotes)
	}
	if got.YesVotes+got.NoVotes+got.AbstainVotes > got.TotalVotes {
		t.Fatal("legacy buckets exceed total votes")
	}
	if got.OptionVotes["a"] != 1 {
		t.Fatalf("option a = %d, want 1", got.OptionVotes["a"])
	}
	if _, ok := got.OptionVotes["maybe"]; ok {
		t.Fatal("undeclared values must not appear in option votes")
	}
}

func TestComputeTallyZeroInitialisesDeclaredKeys(t *testing.T) {
	got := ComputeTally([]model.VoteOption{{Key: "x"}, {Key: "y"}}, nil)
	if !reflect.DeepEqual(got.OptionVotes, map[string]int{"x": 0, "y": 0}) {
		t.Fatalf("option votes = %v", got.OptionVotes)
	}
}

func TestNormalizeOptions(t *testing.T) {
	got, err := NormalizeOptions([]model.VoteOption{{Key: " a ", Color: "#fff"}, {Key: "b", Label: "Opción B"}})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Key != "a" || got[0].Label != "a" || got[1].Label != "Opción B" {
		t.Fatalf("normalized = %+v", got)
	}

	if _, err := NormalizeOptions([]model.VoteOption{{Key: "a"}, {Key: "a"}}); err == nil {
		t.Fatal("duplicate keys must be rejected")
	}
	if _, err := NormalizeOptions([]model.VoteOption{{Key: "  "}}); err == nil {
		t.Fatal("empty key must be rejected")
	}
}

func TestOptionsCodec(t *testing.T) {
	raw, err := model.EncodeOptions([]model.VoteOption{{Key: "a", Label: "A", Color: "#000"}})
	if err != nil {
		t.Fatal(err)
	}
	opts, err := model.DecodeOptions(raw)
	if err != nil || len(opts) != 1 || opts[0].Color != "#000" {
		t.Fatalf("decode = %+v, %v", opts, err)
	}

	if opts, err := model.DecodeOptions(nil); err != nil || opts != nil {
		t.Fatalf("empty column = %+v, %v", opts, err)
	}
	if _, err := model.DecodeOptions([]byte(`{"broken"`)); err == nil {
		t.Fatal("malformed json must return an error")
	}
}
