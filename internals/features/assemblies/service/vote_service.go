package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"condominio_backend/internals/features/assemblies/dto"
	"condominio_backend/internals/features/assemblies/model"
	helper "condominio_backend/internals/helpers"
	"condominio_backend/internals/metrics"
)

// =======================================================
// VOTES
// =======================================================

func (s *AssemblyService) ListVotes(ctx context.Context, assemblyID uuid.UUID) ([]dto.VoteResponse, error) {
	var rows []model.Vote
	if err := s.DB.WithContext(ctx).
		Where("vote_assembly_id = ?", assemblyID).
		Order("vote_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return dto.FromVotes(rows), nil
}

func (s *AssemblyService) FindVote(ctx context.Context, voteID uuid.UUID) (*model.Vote, *model.Assembly, error) {
	var v model.Vote
	if err := s.DB.WithContext(ctx).First(&v, "vote_id = ?", voteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, helper.NotFound("vote not found")
		}
		return nil, nil, err
	}
	a, err := s.FindAssembly(ctx, v.VoteAssemblyID)
	if err != nil {
		return nil, nil, err
	}
	return &v, a, nil
}

func (s *AssemblyService) CreateVote(ctx context.Context, assemblyID uuid.UUID, req dto.CreateVoteRequest) (*dto.VoteResponse, error) {
	opts, err := NormalizeOptions(req.Options)
	if err != nil {
		return nil, helper.Validation("%s", err.Error())
	}
	rawOpts, err := model.EncodeOptions(opts)
	if err != nil {
		return nil, err
	}
	rawCounts, err := model.EncodeOptionVotes(ComputeTally(opts, nil).OptionVotes)
	if err != nil {
		return nil, err
	}

	var out model.Vote
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockAssembly(tx, assemblyID)
		if err != nil {
			return err
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("votes cannot be added to a completed assembly")
		}
		out = model.Vote{
			VoteAssemblyID:  assemblyID,
			VoteTitle:       strings.TrimSpace(req.Title),
			VoteDescription: trimPtr(req.Description),
			VoteOptions:     rawOpts,
			VoteOptionVotes: rawCounts,
			VoteIsActive:    true,
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, err
	}
	resp := dto.FromVote(out)
	return &resp, nil
}

func (s *AssemblyService) UpdateVote(ctx context.Context, voteID uuid.UUID, req dto.UpdateVoteRequest) (*dto.VoteResponse, error) {
	var out model.Vote
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, a, err := lockVote(tx, voteID)
		if err != nil {
			return err
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("votes of a completed assembly cannot be modified")
		}

		updates := map[string]any{}
		if req.Title != nil {
			if t := strings.TrimSpace(*req.Title); t != "" {
				v.VoteTitle = t
				updates["vote_title"] = t
			}
		}
		if req.Description != nil {
			v.VoteDescription = trimPtr(req.Description)
			updates["vote_description"] = v.VoteDescription
		}
		if req.IsActive != nil {
			v.VoteIsActive = *req.IsActive
			updates["vote_is_active"] = v.VoteIsActive
		}
		if req.Options != nil {
			opts, err := NormalizeOptions(*req.Options)
			if err != nil {
				return helper.Validation("%s", err.Error())
			}
			raw, err := model.EncodeOptions(opts)
			if err != nil {
				return err
			}
			v.VoteOptions = raw
			updates["vote_options"] = raw
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.Vote{}).Where("vote_id = ?", voteID).Updates(updates).Error; err != nil {
				return err
			}
		}
		// opsi bisa berubah, counter dihitung ulang dari record
		if req.Options != nil {
			if err := s.recomputeTally(tx, &v); err != nil {
				return err
			}
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.FromVote(out)
	return &resp, nil
}

// CastVote: upsert per (vote, resident), lalu hitung ulang seluruh counter.
func (s *AssemblyService) CastVote(ctx context.Context, voteID uuid.UUID, req dto.CastVoteRequest) (*dto.CastVoteResult, error) {
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, helper.Validation("vote value is required")
	}

	var res dto.CastVoteResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, a, err := lockVote(tx, voteID)
		if err != nil {
			return err
		}
		if !v.VoteIsActive {
			return helper.Validation("this vote is closed")
		}
		if a.AssemblyStatus == model.AssemblyStatusCompleted {
			return helper.Validation("voting is closed because the assembly is completed")
		}
		if err := residentInCondominium(tx, req.ResidentID, a.AssemblyCondominiumID); err != nil {
			return err
		}

		var rec model.VoteRecord
		err = tx.Where("vote_record_vote_id = ? AND vote_record_resident_id = ?", voteID, req.ResidentID).
			First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = model.VoteRecord{
				VoteRecordVoteID:     voteID,
				VoteRecordResidentID: req.ResidentID,
				VoteRecordValue:      value,
			}
			if err := tx.Create(&rec).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					return helper.Conflict("this resident's ballot was recorded concurrently, retry the request")
				}
				return err
			}
		case err != nil:
			return err
		default:
			rec.VoteRecordValue = value
			if err := tx.Model(&model.VoteRecord{}).
				Where("vote_record_id = ?", rec.VoteRecordID).
				Update("vote_record_value", value).Error; err != nil {
				return err
			}
		}

		if err := s.recomputeTally(tx, &v); err != nil {
			return err
		}
		res = dto.CastVoteResult{Record: rec, Vote: dto.FromVote(v)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.VotesCast.Inc()
	return &res, nil
}

// recomputeTally menghitung ulang counter vote dari seluruh VoteRecord dan menyimpannya.
// Options tersimpan yang rusak tidak menggagalkan suara: option_votes dikosongkan.
func (s *AssemblyService) recomputeTally(tx *gorm.DB, v *model.Vote) error {
	var values []string
	if err := tx.Model(&model.VoteRecord{}).
		Where("vote_record_vote_id = ?", v.VoteID).
		Pluck("vote_record_value", &values).Error; err != nil {
		return err
	}

	opts, decodeErr := model.DecodeOptions(v.VoteOptions)
	if decodeErr != nil {
		s.log.Warn().Err(decodeErr).Str("vote_id", v.VoteID.String()).Msg("stored vote options are malformed; option tally reset")
		opts = nil
	}
	t := ComputeTally(opts, values)

	rawCounts, err := model.EncodeOptionVotes(t.OptionVotes)
	if err != nil {
		return err
	}
	v.VoteOptionVotes = rawCounts
	v.VoteYesVotes = t.YesVotes
	v.VoteNoVotes = t.NoVotes
	v.VoteAbstainVotes = t.AbstainVotes
	v.VoteTotalVotes = t.TotalVotes

	return tx.Model(&model.Vote{}).Where("vote_id = ?", v.VoteID).Updates(map[string]any{
		"vote_option_votes":  v.VoteOptionVotes,
		"vote_yes_votes":     v.VoteYesVotes,
		"vote_no_votes":      v.VoteNoVotes,
		"vote_abstain_votes": v.VoteAbstainVotes,
		"vote_total_votes":   v.VoteTotalVotes,
	}).Error
}

func lockVote(tx *gorm.DB, voteID uuid.UUID) (model.Vote, model.Assembly, error) {
	var v model.Vote
	if err := helper.ForUpdate(tx).First(&v, "vote_id = ?", voteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return v, model.Assembly{}, helper.NotFound("vote not found")
		}
		return v, model.Assembly{}, err
	}
	var a model.Assembly
	if err := tx.First(&a, "assembly_id = ?", v.VoteAssemblyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return v, a, helper.NotFound("assembly not found")
		}
		return v, a, err
	}
	return v, a, nil
}
