package model

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// VoteOption adalah satu pilihan pada vote berbasis opsi.
type VoteOption struct {
	Key   string `json:"key" validate:"required,max=50"`
	Label string `json:"label" validate:"omitempty,max=120"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

func EncodeOptions(opts []VoteOption) (datatypes.JSON, error) {
	if opts == nil {
		opts = []VoteOption{}
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeOptions: kolom kosong/null berarti vote klasik (yes/no/abstain) tanpa opsi.
func DecodeOptions(raw datatypes.JSON) ([]VoteOption, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	var opts []VoteOption
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func EncodeOptionVotes(m map[string]int) (datatypes.JSON, error) {
	if m == nil {
		m = map[string]int{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func DecodeOptionVotes(raw datatypes.JSON) map[string]int {
	out := map[string]int{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
