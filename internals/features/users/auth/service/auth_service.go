package service

import (
	"context"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"condominio_backend/internals/configs"
	"condominio_backend/internals/constants"
	condoModel "condominio_backend/internals/features/condominiums/model"
	"condominio_backend/internals/features/users/auth/dto"
	authHelper "condominio_backend/internals/features/users/auth/helper"
	authRepo "condominio_backend/internals/features/users/auth/repository"
	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const msgInvalidCredentials = "invalid email or password"

/* ==========================
   Google verifier
========================== */

type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type futurendaVerifier struct {
	clientID string
}

// NewGoogleVerifier mengembalikan nil bila client id kosong (login google nonaktif).
func NewGoogleVerifier(clientID string) GoogleVerifier {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return futurendaVerifier{clientID: clientID}
}

func (v futurendaVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	verifier := googleAuthIDTokenVerifier.Verifier{}
	if err := verifier.VerifyIDToken(idToken, []string{v.clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{Subject: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

/* ==========================
   Service
========================== */

type AuthService struct {
	DB        *gorm.DB
	Tokens    *TokenIssuer
	Blacklist helperAuth.TokenBlacklist
	Google    GoogleVerifier
	log       zerolog.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, blacklist helperAuth.TokenBlacklist, google GoogleVerifier) *AuthService {
	return &AuthService{
		DB:        db,
		Tokens:    tokens,
		Blacklist: blacklist,
		Google:    google,
		log:       configs.WithComponent("auth"),
	}
}

// Login email + password.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, authHelper.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.Unauthorized(msgInvalidCredentials)
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, helper.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, helper.Forbidden("account is disabled, contact the administrator")
	}
	return s.issue(ctx, *user)
}

// LoginGoogle hanya untuk akun yang sudah terdaftar; google_id ditautkan saat login pertama.
func (s *AuthService) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if s.Google == nil {
		return nil, helper.Validation("google sign-in is not configured")
	}
	identity, err := s.Google.Verify(strings.TrimSpace(req.IDToken))
	if err != nil {
		s.log.Debug().Err(err).Msg("google id token rejected")
		return nil, helper.Unauthorized("invalid google id token")
	}

	user, err := authRepo.FindUserByGoogleID(ctx, s.DB, identity.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = authRepo.FindUserByEmail(ctx, s.DB, authHelper.NormalizeEmail(identity.Email))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, helper.Unauthorized("no account is registered for this google email")
		}
		if user.GoogleID != nil && *user.GoogleID != identity.Subject {
			return nil, helper.Unauthorized("account is linked to a different google identity")
		}
		if user.GoogleID == nil {
			if err := authRepo.LinkGoogleID(ctx, s.DB, user.ID, identity.Subject); err != nil {
				return nil, err
			}
			user.GoogleID = &identity.Subject
		}
	}
	if !user.IsActive {
		return nil, helper.Forbidden("account is disabled, contact the administrator")
	}
	return s.issue(ctx, *user)
}

func (s *AuthService) issue(ctx context.Context, user userModel.UserModel) (*dto.LoginResponse, error) {
	me, err := s.buildMe(ctx, user)
	if err != nil {
		return nil, err
	}
	condoIDs := lo.Map(me.Condominiums, func(m dto.MembershipItem, _ int) uuid.UUID { return m.CondominiumID })
	token, exp, err := s.Tokens.Issue(user, me.Roles, condoIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID.String()).Strs("roles", me.Roles).Msg("login")
	return &dto.LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, Me: *me}, nil
}

// Logout memasukkan token ke blacklist sampai exp-nya.
func (s *AuthService) Logout(ctx context.Context, rawAccessToken string) error {
	claims, err := s.Tokens.Parse(rawAccessToken)
	if err != nil {
		return err
	}
	if s.Blacklist == nil {
		s.log.Warn().Msg("logout without blacklist backend; token stays valid until expiry")
		return nil
	}
	return s.Blacklist.Add(ctx, rawAccessToken, claims.ExpiresAt.Time)
}

// Authenticate dipakai middleware: verifikasi token, cek blacklist, lalu muat Principal dari DB.
func (s *AuthService) Authenticate(ctx context.Context, rawAccessToken string) (*helperAuth.Principal, error) {
	claims, err := s.Tokens.Parse(rawAccessToken)
	if err != nil {
		return nil, err
	}
	if s.Blacklist != nil {
		listed, err := s.Blacklist.IsBlacklisted(ctx, rawAccessToken)
		if err != nil {
			return nil, err
		}
		if listed {
			return nil, helper.Unauthorized("session has ended, please log in again")
		}
	}
	userID, _ := claims.UserID()
	return s.LoadPrincipal(ctx, userID)
}

// LoadPrincipal: role & keanggotaan selalu dibaca ulang supaya pencabutan langsung berlaku.
func (s *AuthService) LoadPrincipal(ctx context.Context, userID uuid.UUID) (*helperAuth.Principal, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.Unauthorized("user not found")
	}
	if !user.IsActive {
		return nil, helper.Forbidden("account is disabled, contact the administrator")
	}
	names, err := authRepo.UserRoleNames(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	condoIDs, err := authRepo.UserCondominiumIDs(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	roles := lo.FilterMap(names, func(n string, _ int) (constants.Role, bool) {
		return constants.ParseRole(n)
	})
	return &helperAuth.Principal{
		UserID:         user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Roles:          roles,
		CondominiumIDs: condoIDs,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.NotFound("user not found")
	}
	return s.buildMe(ctx, *user)
}

func (s *AuthService) buildMe(ctx context.Context, user userModel.UserModel) (*dto.MeResponse, error) {
	roles, err := authRepo.UserRoleNames(ctx, s.DB, user.ID)
	if err != nil {
		return nil, err
	}
	ids, err := authRepo.UserCondominiumIDs(ctx, s.DB, user.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MembershipItem, 0, len(ids))
	if len(ids) > 0 {
		var condos []condoModel.Condominium
		if err := s.DB.WithContext(ctx).
			Select("condominium_id", "condominium_name").
			Where("condominium_id IN ?", ids).
			Order("condominium_name ASC").
			Find(&condos).Error; err != nil {
			return nil, err
		}
		for _, c := range condos {
			items = append(items, dto.MembershipItem{CondominiumID: c.CondominiumID, CondominiumName: c.CondominiumName})
		}
	}
	if roles == nil {
		roles = []string{}
	}
	return &dto.MeResponse{User: user, Roles: roles, Condominiums: items}, nil
}
