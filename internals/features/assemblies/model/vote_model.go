package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vote: satu mata pemungutan suara dalam assembly.
// Counter (option_votes, yes/no/abstain, total) selalu dihitung ulang dari VoteRecord.
type Vote struct {
	VoteID          uuid.UUID `json:"vote_id" gorm:"type:uuid;primaryKey;column:vote_id"`
	VoteAssemblyID  uuid.UUID `json:"vote_assembly_id" gorm:"type:uuid;not null;index;column:vote_assembly_id"`
	VoteTitle       string    `json:"vote_title" gorm:"size:255;not null;column:vote_title"`
	VoteDescription *string   `json:"vote_description" gorm:"type:text;column:vote_description"`

	// [{"key":"a","label":"Opción A","color":"#22c55e"}, ...]
	VoteOptions     datatypes.JSON `json:"vote_options" gorm:"column:vote_options"`
	VoteOptionVotes datatypes.JSON `json:"vote_option_votes" gorm:"column:vote_option_votes"`

	VoteYesVotes     int  `json:"vote_yes_votes" gorm:"not null;default:0;column:vote_yes_votes"`
	VoteNoVotes      int  `json:"vote_no_votes" gorm:"not null;default:0;column:vote_no_votes"`
	VoteAbstainVotes int  `json:"vote_abstain_votes" gorm:"not null;default:0;column:vote_abstain_votes"`
	VoteTotalVotes   int  `json:"vote_total_votes" gorm:"not null;default:0;column:vote_total_votes"`
	VoteIsActive     bool `json:"vote_is_active" gorm:"not null;column:vote_is_active"`

	VoteCreatedAt time.Time `json:"vote_created_at" gorm:"not null;autoCreateTime;column:vote_created_at"`
	VoteUpdatedAt time.Time `json:"vote_updated_at" gorm:"not null;autoUpdateTime;column:vote_updated_at"`
}

func (Vote) TableName() string { return "assembly_votes" }

func (m *Vote) BeforeCreate(tx *gorm.DB) error {
	if m.VoteID == uuid.Nil {
		m.VoteID = uuid.New()
	}
	return nil
}

// VoteRecord: satu suara per (vote, resident); suara berikutnya menimpa.
type VoteRecord struct {
	VoteRecordID         uuid.UUID `json:"vote_record_id" gorm:"type:uuid;primaryKey;column:vote_record_id"`
	VoteRecordVoteID     uuid.UUID `json:"vote_record_vote_id" gorm:"type:uuid;not null;uniqueIndex:uq_vote_record_resident;column:vote_record_vote_id"`
	VoteRecordResidentID uuid.UUID `json:"vote_record_resident_id" gorm:"type:uuid;not null;uniqueIndex:uq_vote_record_resident;column:vote_record_resident_id"`
	VoteRecordValue      string    `json:"vote_record_value" gorm:"size:100;not null;column:vote_record_value"`

	VoteRecordCreatedAt time.Time `json:"vote_record_created_at" gorm:"not null;autoCreateTime;column:vote_record_created_at"`
	VoteRecordUpdatedAt time.Time `json:"vote_record_updated_at" gorm:"not null;autoUpdateTime;column:vote_record_updated_at"`
}

func (VoteRecord) TableName() string { return "assembly_vote_records" }

func (m *VoteRecord) BeforeCreate(tx *gorm.DB) error {
	if m.VoteRecordID == uuid.Nil {
		m.VoteRecordID = uuid.New()
	}
	return nil
}
