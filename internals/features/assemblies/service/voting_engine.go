package service

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"condominio_backend/internals/features/assemblies/model"
)

// Tally: hasil hitung ulang dari seluruh VoteRecord.
type Tally struct {
	OptionVotes  map[string]int `json:"option_votes"`
	YesVotes     int            `json:"yes_votes"`
	NoVotes      int            `json:"no_votes"`
	AbstainVotes int            `json:"abstain_votes"`
	TotalVotes   int            `json:"total_votes"`
}

// NormalizeOptions merapikan key/label dan menolak key kosong atau duplikat.
func NormalizeOptions(opts []model.VoteOption) ([]model.VoteOption, error) {
	out := make([]model.VoteOption, 0, len(opts))
	for i, o := range opts {
		o.Key = strings.TrimSpace(o.Key)
		o.Label = strings.TrimSpace(o.Label)
		o.Color = strings.TrimSpace(o.Color)
		if o.Key == "" {
			return nil, fmt.Errorf("option %d has an empty key", i+1)
		}
		if o.Label == "" {
			o.Label = o.Key
		}
		out = append(out, o)
	}
	dups := lo.FindDuplicatesBy(out, func(o model.VoteOption) string { return o.Key })
	if len(dups) > 0 {
		return nil, fmt.Errorf("duplicate option key %q", dups[0].Key)
	}
	return out, nil
}

// ComputeTally menghitung ulang counter dari nilai-nilai suara.
// Bucket legacy selalu diisi, juga untuk vote berbasis opsi.
func ComputeTally(options []model.VoteOption, values []string) Tally {
	t := Tally{OptionVotes: make(map[string]int, len(options)), TotalVotes: len(values)}
	for _, o := range options {
		t.OptionVotes[o.Key] = 0
	}

	for _, v := range values {
		if _, declared := t.OptionVotes[v]; declared {
			t.OptionVotes[v]++
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "sí":
			t.YesVotes++
		case "no":
			t.NoVotes++
		case "abstain", "abstención":
			t.AbstainVotes++
		}
	}
	return t
}

// ComputeQuorum = attendees / totalUnits * 100 tanpa pembulatan; 0 bila tidak ada unit.
// Dikali 100 dulu supaya rasio bulat (29/50 = 58) tetap eksak.
func ComputeQuorum(attendees, totalUnits int64) float64 {
	if totalUnits <= 0 || attendees <= 0 {
		return 0
	}
	return float64(attendees*100) / float64(totalUnits)
}
