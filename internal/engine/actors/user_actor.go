package actors

import (
	stdctx "context"
	"log/slog"
	"strings"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for user operations. Mutations carry the authenticated
// principal so the actor can make the authorization decision itself.
type (
	RegisterUserMsg struct {
		Username       string
		Email          string
		Password       string
		ProfilePicture string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID
	}

	GetAllUsersMsg struct{}

	UpdateProfileMsg struct {
		Principal      models.Principal
		TargetID       uuid.UUID
		NewUsername    string
		NewEmail       string
		NewPicture     string
	}

	DeleteUserMsg struct {
		Principal models.Principal
		TargetID  uuid.UUID
	}

	UpdateRoleMsg struct {
		Principal models.Principal
		TargetID  uuid.UUID
		Role      string
	}

	UpdateStatusMsg struct {
		Principal models.Principal
		TargetID  uuid.UUID
		Status    string
	}

	ResetPasswordMsg struct {
		Principal   models.Principal
		TargetID    uuid.UUID
		NewPassword string
	}
)

// UserActor owns account lifecycle: signup, login, profile changes and the
// admin-only role/status/password operations.
type UserActor struct {
	db      database.Store
	auditor *audit.Recorder
	metrics *utils.MetricsCollector
}

func NewUserActor(db database.Store, auditor *audit.Recorder, metrics *utils.MetricsCollector) actor.Actor {
	return &UserActor{db: db, auditor: auditor, metrics: metrics}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("UserActor started")
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserProfileMsg:
		a.handleGetProfile(context, msg)
	case *GetAllUsersMsg:
		a.handleGetAllUsers(context)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *DeleteUserMsg:
		a.handleDelete(context, msg)
	case *UpdateRoleMsg:
		a.handleUpdateRole(context, msg)
	case *UpdateStatusMsg:
		a.handleUpdateStatus(context, msg)
	case *ResetPasswordMsg:
		a.handleResetPassword(context, msg)
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases, so lookups and
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	username := strings.TrimSpace(msg.Username)
	email := NormalizeEmail(msg.Email)

	switch {
	case email == "" || msg.Password == "" || username == "":
		context.Respond(utils.NewValidationError("Email, password and userName are required"))
		return
	case len(username) < 3:
		context.Respond(utils.NewValidationError("User name must be at least 3 characters"))
		return
	case len(msg.Password) < 6:
		context.Respond(utils.NewValidationError("Password must be at least 6 characters"))
		return
	}

	// Two independent uniqueness probes; the store's unique indexes are the
	// race-tolerant backstop.
	if _, err := a.db.GetUserByUsername(ctx, username); err == nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username already registered", nil))
		return
	}
	if _, err := a.db.GetUserByEmail(ctx, email); err == nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil))
		return
	}

	hashed, err := HashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		ProfilePicture: strings.TrimSpace(msg.ProfilePicture),
		Role:           models.RoleUser,
		Status:         models.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(err)
			return
		}
		slog.Error("failed to save user", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
		return
	}

	a.auditor.Record(audit.ActionUserSignup, user.ID, user.ID, map[string]string{"username": user.Username})
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	email := NormalizeEmail(msg.Email)
	if email == "" || msg.Password == "" {
		context.Respond(utils.NewValidationError("Email and password are required"))
		return
	}

	user, err := a.db.GetUserByEmail(ctx, email)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	// Suspension is enforced here, at token issuance. Tokens already in the
	// wild stay valid until they expire.
	if user.Status == models.StatusSuspended {
		context.Respond(utils.NewForbiddenError("account is suspended"))
		return
	}

	if !ComparePassword(msg.Password, user.HashedPassword) {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
		return
	}

	a.metrics.AddOperationLatency("login", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetUserProfileMsg) {
	user, err := a.db.GetUser(stdctx.Background(), msg.UserID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleGetAllUsers(context actor.Context) {
	users, err := a.db.GetAllUsers(stdctx.Background())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch users", err))
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	context.Respond(users)
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	ctx := stdctx.Background()

	if !msg.Principal.CanModify(msg.TargetID) {
		context.Respond(utils.NewForbiddenError("you may only update your own profile"))
		return
	}

	user, err := a.db.GetUser(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	if username := strings.TrimSpace(msg.NewUsername); username != "" && username != user.Username {
		if len(username) < 3 {
			context.Respond(utils.NewValidationError("User name must be at least 3 characters"))
			return
		}
		if _, err := a.db.GetUserByUsername(ctx, username); err == nil {
			context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username already in use", nil))
			return
		}
		user.Username = username
	}

	if email := NormalizeEmail(msg.NewEmail); email != "" && email != user.Email {
		if _, err := a.db.GetUserByEmail(ctx, email); err == nil {
			context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already in use", nil))
			return
		}
		user.Email = email
	}

	if picture := strings.TrimSpace(msg.NewPicture); picture != "" {
		user.ProfilePicture = picture
	}

	user.UpdatedAt = time.Now()
	if err := a.db.SaveUser(ctx, user); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(err)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleDelete(context actor.Context, msg *DeleteUserMsg) {
	ctx := stdctx.Background()

	if !msg.Principal.CanModify(msg.TargetID) {
		context.Respond(utils.NewForbiddenError("you may only delete your own account"))
		return
	}

	if err := a.db.DeleteUser(ctx, msg.TargetID); err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete user", err))
		return
	}

	// Posts and comments are left behind on purpose; readers substitute the
	// deleted-author sentinel when the owner no longer resolves.
	a.auditor.Record(audit.ActionUserDelete, msg.Principal.ID, msg.TargetID, nil)
	context.Respond(true)
}

func (a *UserActor) handleUpdateRole(context actor.Context, msg *UpdateRoleMsg) {
	ctx := stdctx.Background()

	if !models.ValidRole(msg.Role) {
		context.Respond(utils.NewValidationError("Role must be user or admin"))
		return
	}

	user, err := a.db.GetUser(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	previous := user.Role
	user.Role = models.Role(msg.Role)
	user.UpdatedAt = time.Now()
	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update role", err))
		return
	}

	// The change only reaches tokens at the target's next login.
	a.auditor.Record(audit.ActionUserRoleChange, msg.Principal.ID, msg.TargetID,
		map[string]string{"from": string(previous), "to": msg.Role})
	context.Respond(user)
}

func (a *UserActor) handleUpdateStatus(context actor.Context, msg *UpdateStatusMsg) {
	ctx := stdctx.Background()

	if !models.ValidStatus(msg.Status) {
		context.Respond(utils.NewValidationError("Status must be active or suspended"))
		return
	}

	user, err := a.db.GetUser(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	previous := user.Status
	user.Status = models.Status(msg.Status)
	user.UpdatedAt = time.Now()
	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update status", err))
		return
	}

	a.auditor.Record(audit.ActionUserStatusChange, msg.Principal.ID, msg.TargetID,
		map[string]string{"from": string(previous), "to": msg.Status})
	context.Respond(user)
}

func (a *UserActor) handleResetPassword(context actor.Context, msg *ResetPasswordMsg) {
	ctx := stdctx.Background()

	if len(msg.NewPassword) < 6 {
		context.Respond(utils.NewValidationError("Password must be at least 6 characters"))
		return
	}

	user, err := a.db.GetUser(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("User"))
		return
	}

	hashed, err := HashPassword(msg.NewPassword)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	user.HashedPassword = hashed
	user.UpdatedAt = time.Now()
	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to reset password", err))
		return
	}

	a.auditor.Record(audit.ActionUserPasswordReset, msg.Principal.ID, msg.TargetID, nil)
	// Neither the old nor the new hash leaves the actor.
	context.Respond(true)
}
