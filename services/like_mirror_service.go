package services

import (
	"context"
	"log"
	"sync"

	"collabmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// likeMirrorEvent is one bookkeeping update for the denormalized
// likesGiven/likesReceived sets on user profiles.
type likeMirrorEvent struct {
	ActorID  string
	TargetID string
	Action   string // like adds to the sets, pass removes
}

// LikeMirrorService maintains the likes-given/likes-received mirrors on user
// profiles as an asynchronous, idempotent side effect. The Match record stays
// the source of truth: enqueue never blocks, and a failed or dropped mirror
// update only logs. Idempotence comes from DynamoDB string-set ADD/DELETE.
type LikeMirrorService struct {
	Dynamo *DynamoService

	queue chan likeMirrorEvent
	once  sync.Once
	wg    sync.WaitGroup
}

// NewLikeMirrorService creates the mirror worker with a buffered queue
func NewLikeMirrorService(dynamo *DynamoService) *LikeMirrorService {
	return &LikeMirrorService{
		Dynamo: dynamo,
		queue:  make(chan likeMirrorEvent, 256),
	}
}

// Start launches the background worker
func (lms *LikeMirrorService) Start() {
	lms.once.Do(func() {
		lms.wg.Add(1)
		go func() {
			defer lms.wg.Done()
			for ev := range lms.queue {
				lms.apply(context.Background(), ev)
			}
		}()
	})
}

// Stop drains the queue and waits for the worker to finish
func (lms *LikeMirrorService) Stop() {
	close(lms.queue)
	lms.wg.Wait()
}

// Enqueue records a mirror update without blocking the primary action.
// A full queue drops the event; the mirrors are best-effort.
func (lms *LikeMirrorService) Enqueue(actorID, targetID, action string) {
	select {
	case lms.queue <- likeMirrorEvent{ActorID: actorID, TargetID: targetID, Action: action}:
	default:
		log.Printf("⚠️ Like mirror queue full, dropping %s %s -> %s", action, actorID, targetID)
	}
}

// apply performs the two set mutations for one event. ADD and DELETE on
// string sets are idempotent, so re-applying an event is a no-op.
func (lms *LikeMirrorService) apply(ctx context.Context, ev likeMirrorEvent) {
	verb := "ADD"
	if ev.Action == models.ActionPass {
		verb = "DELETE"
	}

	lms.mutateSet(ctx, ev.ActorID, "likesGiven", verb, ev.TargetID)
	lms.mutateSet(ctx, ev.TargetID, "likesReceived", verb, ev.ActorID)
}

func (lms *LikeMirrorService) mutateSet(ctx context.Context, userID, attribute, verb, member string) {
	updateExpression := verb + " #attr :member"
	_, err := lms.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression,
		map[string]types.AttributeValue{"userId": &types.AttributeValueMemberS{Value: userID}},
		map[string]types.AttributeValue{
			":member": &types.AttributeValueMemberSS{Value: []string{member}},
		},
		map[string]string{"#attr": attribute},
	)
	if err != nil {
		log.Printf("⚠️ Like mirror update failed for %s.%s: %v", userID, attribute, err)
	}
}
