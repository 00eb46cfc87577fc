package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cliphub/internal/auth"
	apperrors "cliphub/internal/errors"
	"cliphub/internal/media"
	"cliphub/internal/model"
	"cliphub/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the registration fields plus the spooled upload
// paths. CoverImagePath may be empty.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// TokenPair is an issued access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult bundles the authenticated user with its fresh pair.
type LoginResult struct {
	User *model.PublicUser
	Pair TokenPair
}

// SessionService orchestrates the credential/session lifecycle: issuance,
// rotation and revocation of token pairs, plus password verification and
// mutation.
type SessionService interface {
	Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, username string) (*model.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*model.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*model.PublicUser, error)
	Authenticate(ctx context.Context, accessToken string) (*model.PublicUser, error)
}

type sessionService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	media  media.Store
}

// NewSessionService builds the session manager from its collaborators.
func NewSessionService(users repository.UserRepository, tokens *auth.TokenService, mediaStore media.Store) SessionService {
	return &sessionService{
		users:  users,
		tokens: tokens,
		media:  mediaStore,
	}
}

// Register validates input, uploads media and persists the new user with a
// hashed password. A failed avatar upload aborts before any record is
// created; a failed cover-image upload is tolerated and stored empty.
func (s *sessionService) Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error) {
	for _, field := range []string{in.FullName, in.Email, in.Username, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, apperrors.NewValidation("all fields are required")
		}
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, apperrors.NewInternal("check user existence", err)
	}
	if exists {
		return nil, apperrors.NewConflict("user with email or username already exists")
	}

	if in.AvatarPath == "" {
		return nil, apperrors.NewValidation("avatar is required")
	}

	avatar, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil || avatar == nil || avatar.URL == "" {
		return nil, apperrors.NewUpload("avatar upload failed")
	}

	coverURL := ""
	if in.CoverImagePath != "" {
		if cover, err := s.media.Upload(ctx, in.CoverImagePath); err == nil && cover != nil {
			coverURL = cover.URL
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternal("hash password", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hashed),
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternal("create user", err)
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil || created == nil {
		return nil, apperrors.NewInternal("something went wrong while creating the user", err)
	}
	return created.Public(), nil
}

// Login verifies the password and issues a fresh pair, persisting the new
// refresh token as the user's single active value.
func (s *sessionService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperrors.NewValidation("email or username is required")
	}

	user, err := s.users.FindByEmailOrUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user does not exist")
		}
		return nil, apperrors.NewInternal("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorized("invalid password")
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user.Public(), Pair: *pair}, nil
}

// issuePair signs a fresh pair and persists the refresh half as the
// user's current refresh token, superseding any previous one. Any failure
// here surfaces as a single internal error.
func (s *sessionService) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, refreshToken, err := s.tokens.IssuePair(userID.String())
	if err != nil {
		return nil, apperrors.NewInternal("token generation failed", err)
	}
	if err := s.users.SetRefreshToken(ctx, userID, &refreshToken); err != nil {
		return nil, apperrors.NewInternal("token generation failed", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a valid refresh token for a new pair. The incoming
// token must textually equal the stored slot; a superseded token fails
// here, which is the replay guard.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.NewUnauthorized("refresh token is required")
	}

	subject, err := s.tokens.Verify(refreshToken, auth.ClassRefresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.NewUnauthorized("refresh token expired")
		case errors.Is(err, auth.ErrWrongTokenClass):
			return nil, apperrors.NewUnauthorized("wrong token class")
		default:
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, apperrors.NewUnauthorized("refresh token is expired or already used")
	}

	accessToken, nextRefresh, err := s.tokens.IssuePair(userID.String())
	if err != nil {
		return nil, apperrors.NewInternal("token generation failed", err)
	}

	// Compare-and-swap against the token being redeemed: if a concurrent
	// rotation already replaced it, this one loses.
	swapped, err := s.users.RotateRefreshToken(ctx, userID, refreshToken, nextRefresh)
	if err != nil {
		return nil, apperrors.NewInternal("token generation failed", err)
	}
	if !swapped {
		return nil, apperrors.NewUnauthorized("refresh token is expired or already used")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: nextRefresh}, nil
}

// Logout clears the refresh token slot. Idempotent: a second call or a
// missing user is not an error.
func (s *sessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return apperrors.NewInternal("clear refresh token", err)
	}
	return nil
}

// ChangePassword re-hashes and persists the new password after verifying
// the old one.
func (s *sessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperrors.NewValidation("new password and confirmation do not match")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("user does not exist")
		}
		return apperrors.NewInternal("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.NewUnauthorized("invalid old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperrors.NewInternal("hash password", err)
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return apperrors.NewInternal("update password", err)
	}
	return nil
}

// UpdateProfile applies a partial update of fullName and/or username.
func (s *sessionService) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, username string) (*model.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.ToLower(strings.TrimSpace(username))
	if fullName == "" && username == "" {
		return nil, apperrors.NewValidation("at least one field is required")
	}

	fields := map[string]interface{}{}
	if fullName != "" {
		fields["full_name"] = fullName
	}
	if username != "" {
		if other, err := s.users.FindByUsername(ctx, username); err == nil && other.ID != userID {
			return nil, apperrors.NewConflict("username already taken")
		}
		fields["username"] = username
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, apperrors.NewInternal("update profile", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user does not exist")
		}
		return nil, apperrors.NewInternal("find user", err)
	}
	return user.Public(), nil
}

// UpdateAvatar replaces the avatar reference with a freshly uploaded one.
func (s *sessionService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*model.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "avatar")
}

// UpdateCoverImage replaces the cover image reference.
func (s *sessionService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*model.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "cover_image")
}

func (s *sessionService) updateImage(ctx context.Context, userID uuid.UUID, localPath, column string) (*model.PublicUser, error) {
	if localPath == "" {
		return nil, apperrors.NewValidation("image file is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user does not exist")
		}
		return nil, apperrors.NewInternal("find user", err)
	}

	asset, err := s.media.Upload(ctx, localPath)
	if err != nil || asset == nil || asset.URL == "" {
		return nil, apperrors.NewUpload("image upload failed")
	}

	previous := user.Avatar
	if column == "cover_image" {
		previous = user.CoverImage
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{column: asset.URL}); err != nil {
		return nil, apperrors.NewInternal("update image reference", err)
	}

	// Best effort: a dangling old object is not worth failing the update.
	if previous != "" {
		if err := s.media.Delete(ctx, previous); err != nil {
			log.Printf("delete superseded asset %s: %v", previous, err)
		}
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal("find user", err)
	}
	return updated.Public(), nil
}

// Authenticate resolves a bearer access token to its projected user. Used
// by the HTTP middleware guarding protected routes.
func (s *sessionService) Authenticate(ctx context.Context, accessToken string) (*model.PublicUser, error) {
	if accessToken == "" {
		return nil, apperrors.NewUnauthorized("missing access token")
	}

	subject, err := s.tokens.Verify(accessToken, auth.ClassAccess)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.NewUnauthorized("access token expired")
		case errors.Is(err, auth.ErrWrongTokenClass):
			return nil, apperrors.NewUnauthorized("wrong token class")
		default:
			return nil, apperrors.NewUnauthorized("invalid access token")
		}
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid access token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("user no longer exists")
	}
	return user.Public(), nil
}
