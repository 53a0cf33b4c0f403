// Package engine wires the entity actors together and exposes their PIDs to
// the HTTP layer.
package engine

import (
	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/engine/actors"
	"bayou-blog/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors
type Engine struct {
	userActor    *actor.PID
	postActor    *actor.PID
	commentActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, db database.Store, auditor *audit.Recorder, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(db, auditor, metrics)
	})
	userPID := context.Spawn(userProps)

	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(db, auditor, metrics)
	})
	postPID := context.Spawn(postProps)

	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(db, auditor, metrics)
	})
	commentPID := context.Spawn(commentProps)

	return &Engine{
		userActor:    userPID,
		postActor:    postPID,
		commentActor: commentPID,
	}
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}
