package actors

import (
	"path/filepath"
	"testing"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnUserActor(t *testing.T) (*actor.ActorSystem, *actor.PID, *audit.Recorder) {
	t.Helper()
	store := database.NewMemoryStore()
	recorder := audit.NewRecorder(filepath.Join(t.TempDir(), "audit.log"))
	metrics := utils.NewMetricsCollector()

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(store, recorder, metrics)
	})
	return system, system.Root.Spawn(props), recorder
}

func askT(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func TestUserActorSignupAndLogin(t *testing.T) {
	system, pid, _ := spawnUserActor(t)

	// Missing fields rejected.
	result := askT(t, system, pid, &RegisterUserMsg{Email: "a@b.com"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Short password rejected.
	result = askT(t, system, pid, &RegisterUserMsg{Username: "alice", Email: "a@b.com", Password: "123"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Valid signup.
	result = askT(t, system, pid, &RegisterUserMsg{
		Username: "alice",
		Email:    "  Alice@Example.COM  ",
		Password: "hunter22",
	})
	user, ok := result.(*models.User)
	require.True(t, ok, "expected *models.User, got %T: %v", result, result)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email) // normalized
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.NotEqual(t, "hunter22", user.HashedPassword)

	// Duplicate email rejected.
	result = askT(t, system, pid, &RegisterUserMsg{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	// Wrong password.
	result = askT(t, system, pid, &LoginMsg{Email: "alice@example.com", Password: "wrong"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	// Unknown email.
	result = askT(t, system, pid, &LoginMsg{Email: "nobody@example.com", Password: "hunter22"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Successful login.
	result = askT(t, system, pid, &LoginMsg{Email: "alice@example.com", Password: "hunter22"})
	loggedIn := result.(*models.User)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserActorSuspensionBlocksLogin(t *testing.T) {
	system, pid, recorder := spawnUserActor(t)
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	result := askT(t, system, pid, &RegisterUserMsg{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret99",
	})
	user := result.(*models.User)

	// Suspend the account.
	result = askT(t, system, pid, &UpdateStatusMsg{
		Principal: admin,
		TargetID:  user.ID,
		Status:    "suspended",
	})
	suspended := result.(*models.User)
	assert.Equal(t, models.StatusSuspended, suspended.Status)

	// Suspended users cannot obtain new tokens.
	result = askT(t, system, pid, &LoginMsg{Email: "bob@example.com", Password: "secret99"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Reactivate and log in again.
	askT(t, system, pid, &UpdateStatusMsg{Principal: admin, TargetID: user.ID, Status: "active"})
	result = askT(t, system, pid, &LoginMsg{Email: "bob@example.com", Password: "secret99"})
	_, isUser := result.(*models.User)
	assert.True(t, isUser)

	// Both status changes landed in the audit trail.
	entries, err := recorder.List()
	require.NoError(t, err)
	var statusChanges int
	for _, e := range entries {
		if e.Action == audit.ActionUserStatusChange {
			statusChanges++
		}
	}
	assert.Equal(t, 2, statusChanges)
}

func TestUserActorRoleChangeAndValidation(t *testing.T) {
	system, pid, _ := spawnUserActor(t)
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	result := askT(t, system, pid, &RegisterUserMsg{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret99",
	})
	user := result.(*models.User)

	// Bad enum value.
	result = askT(t, system, pid, &UpdateRoleMsg{Principal: admin, TargetID: user.ID, Role: "superuser"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Promote to admin.
	result = askT(t, system, pid, &UpdateRoleMsg{Principal: admin, TargetID: user.ID, Role: "admin"})
	promoted := result.(*models.User)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	// Unknown target.
	result = askT(t, system, pid, &UpdateRoleMsg{Principal: admin, TargetID: uuid.New(), Role: "user"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestUserActorDeleteOwnership(t *testing.T) {
	system, pid, _ := spawnUserActor(t)

	result := askT(t, system, pid, &RegisterUserMsg{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "secret99",
	})
	dave := result.(*models.User)

	// A stranger cannot delete dave.
	stranger := models.Principal{ID: uuid.New(), Role: models.RoleUser}
	result = askT(t, system, pid, &DeleteUserMsg{Principal: stranger, TargetID: dave.ID})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Dave can delete himself.
	self := models.Principal{ID: dave.ID, Role: models.RoleUser}
	result = askT(t, system, pid, &DeleteUserMsg{Principal: self, TargetID: dave.ID})
	assert.Equal(t, true, result)

	// Gone afterwards.
	result = askT(t, system, pid, &GetUserProfileMsg{UserID: dave.ID})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestUserActorResetPassword(t *testing.T) {
	system, pid, _ := spawnUserActor(t)
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	result := askT(t, system, pid, &RegisterUserMsg{
		Username: "erin",
		Email:    "erin@example.com",
		Password: "original1",
	})
	erin := result.(*models.User)

	result = askT(t, system, pid, &ResetPasswordMsg{
		Principal:   admin,
		TargetID:    erin.ID,
		NewPassword: "changed22",
	})
	assert.Equal(t, true, result)

	// Old password no longer works; new one does.
	result = askT(t, system, pid, &LoginMsg{Email: "erin@example.com", Password: "original1"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	result = askT(t, system, pid, &LoginMsg{Email: "erin@example.com", Password: "changed22"})
	_, isUser := result.(*models.User)
	assert.True(t, isUser)
}
