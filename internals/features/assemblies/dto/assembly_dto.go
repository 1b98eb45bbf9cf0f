package dto

import (
	"time"

	"github.com/google/uuid"

	"condominio_backend/internals/features/assemblies/model"
)

/* ===================== Assembly ===================== */

type CreateAssemblyRequest struct {
	CondominiumID  uuid.UUID `json:"condominium_id" validate:"required"`
	Title          string    `json:"title" validate:"required,max=255"`
	AssemblyType   string    `json:"assembly_type" validate:"omitempty,oneof=ordinary extraordinary"`
	ScheduledDate  time.Time `json:"scheduled_date" validate:"required"`
	Location       *string   `json:"location" validate:"omitempty,max=255"`
	Agenda         *string   `json:"agenda"`
	RequiredQuorum *float64  `json:"required_quorum" validate:"omitempty,gte=0,lte=100"`
}

type UpdateAssemblyRequest struct {
	Title          *string               `json:"title" validate:"omitempty,max=255"`
	AssemblyType   *string               `json:"assembly_type" validate:"omitempty,oneof=ordinary extraordinary"`
	ScheduledDate  *time.Time            `json:"scheduled_date"`
	Location       *string               `json:"location" validate:"omitempty,max=255"`
	Agenda         *string               `json:"agenda"`
	RequiredQuorum *float64              `json:"required_quorum" validate:"omitempty,gte=0,lte=100"`
	Status         *model.AssemblyStatus `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}

type UpdateMinutesRequest struct {
	Minutes string `json:"minutes" validate:"required"`
}

type ListAssemblyQuery struct {
	CondominiumID uuid.UUID
	Status        *model.AssemblyStatus
	Offset        int
	Limit         int
}

type AssemblyDetail struct {
	model.Assembly
	TotalUnits    int64          `json:"total_units"`
	AttendeeCount int64          `json:"attendee_count"`
	QuorumReached bool           `json:"quorum_reached"`
	Votes         []VoteResponse `json:"votes"`
}

/* ===================== Votes ===================== */

type CreateVoteRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description *string            `json:"description"`
	Options     []model.VoteOption `json:"options" validate:"omitempty,dive"`
}

type UpdateVoteRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=255"`
	Description *string             `json:"description"`
	Options     *[]model.VoteOption `json:"options" validate:"omitempty,dive"`
	IsActive    *bool               `json:"is_active"`
}

type CastVoteRequest struct {
	ResidentID uuid.UUID `json:"resident_id" validate:"required"`
	Value      string    `json:"value" validate:"required,max=100"`
}

// VoteResponse: bentuk vote yang sudah di-decode (options & option_votes bertipe).
type VoteResponse struct {
	VoteID       uuid.UUID          `json:"vote_id"`
	AssemblyID   uuid.UUID          `json:"vote_assembly_id"`
	Title        string             `json:"vote_title"`
	Description  *string            `json:"vote_description"`
	Options      []model.VoteOption `json:"vote_options"`
	OptionVotes  map[string]int     `json:"vote_option_votes"`
	YesVotes     int                `json:"vote_yes_votes"`
	NoVotes      int                `json:"vote_no_votes"`
	AbstainVotes int                `json:"vote_abstain_votes"`
	TotalVotes   int                `json:"vote_total_votes"`
	IsActive     bool               `json:"vote_is_active"`
	CreatedAt    time.Time          `json:"vote_created_at"`
	UpdatedAt    time.Time          `json:"vote_updated_at"`
}

type CastVoteResult struct {
	Record model.VoteRecord `json:"record"`
	Vote   VoteResponse     `json:"vote"`
}

/* ===================== Attendance ===================== */

type AttendanceRequest struct {
	ResidentID    uuid.UUID `json:"resident_id" validate:"required"`
	Attended      bool      `json:"attended"`
	RepresentedBy *string   `json:"represented_by" validate:"omitempty,max=255"`
	Notes         *string   `json:"notes"`
}

// FromVote men-decode kolom JSON vote. Options yang rusak dikembalikan kosong.
func FromVote(v model.Vote) VoteResponse {
	opts, err := model.DecodeOptions(v.VoteOptions)
	if err != nil || opts == nil {
		opts = []model.VoteOption{}
	}
	return VoteResponse{
		VoteID:       v.VoteID,
		AssemblyID:   v.VoteAssemblyID,
		Title:        v.VoteTitle,
		Description:  v.VoteDescription,
		Options:      opts,
		OptionVotes:  model.DecodeOptionVotes(v.VoteOptionVotes),
		YesVotes:     v.VoteYesVotes,
		NoVotes:      v.VoteNoVotes,
		AbstainVotes: v.VoteAbstainVotes,
		TotalVotes:   v.VoteTotalVotes,
		IsActive:     v.VoteIsActive,
		CreatedAt:    v.VoteCreatedAt,
		UpdatedAt:    v.VoteUpdatedAt,
	}
}

func FromVotes(rows []model.Vote) []VoteResponse {
	out := make([]VoteResponse, 0, len(rows))
	for _, v := range rows {
		out = append(out, FromVote(v))
	}
	return out
}
