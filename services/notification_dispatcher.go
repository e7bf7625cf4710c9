package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"social-club/contract"
	"social-club/domain"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/observability"
	"social-club/protocol"
	"social-club/repositories"

	"github.com/google/uuid"
)

// NotificationDispatcher turns domain events into notification frames for the target user.
// It subscribes to every kind and never returns an error for an offline target.
type NotificationDispatcher struct {
	log        *slog.Logger
	users      repositories.IUserRepository
	deliverer  contract.IDeliverer
	monitoring *observability.MonitoringManager
	now        func() time.Time
}

func NewNotificationDispatcher(log *slog.Logger, users repositories.IUserRepository,
	deliverer contract.IDeliverer, monitoring *observability.MonitoringManager) *NotificationDispatcher {
	return &NotificationDispatcher{
		log:        log,
		users:      users,
		deliverer:  deliverer,
		monitoring: monitoring,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (d *NotificationDispatcher) Handle(ctx context.Context, evt event.DomainEvent) error {
	if evt.IsSelfDirected() {
		d.monitoring.IncrNotificationsSuppressed()
		return nil
	}
	if !d.deliverer.Reachable(evt.TargetUserID) {
		d.monitoring.IncrNotificationsDropped()
		d.log.Debug("Target offline, notification dropped", "kind", evt.Kind, "target_id", evt.TargetUserID)
		return nil
	}

	actor := d.resolveActor(ctx, evt.ActorUserID)
	message, err := RenderMessage(evt, actor)
	if err != nil {
		return err
	}
	frame, err := protocol.NotificationFrame(domain.Notification{
		ID:        uuid.New(),
		Type:      string(evt.Kind),
		Actor:     actor,
		Message:   message,
		CreatedAt: d.now(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	// The target may have left between the check and the push.
	// With a relay the target is always reachable: a user offline on every
	// node only shows up as relay_forwarded with no local push.
	pushed := d.deliverer.Deliver(ctx, evt.TargetUserID, frame)
	if pushed == 0 && !d.deliverer.Reachable(evt.TargetUserID) {
		d.monitoring.IncrNotificationsDropped()
		d.log.Debug("Target went offline, notification dropped", "kind", evt.Kind, "target_id", evt.TargetUserID)
		return nil
	}
	d.monitoring.IncrNotificationsPushed(pushed)
	return nil
}

// resolveActor degrades to an id-only actor: a missing profile never blocks a notification.
func (d *NotificationDispatcher) resolveActor(ctx context.Context, actorID string) domain.Actor {
	user, err := d.users.GetUserByID(ctx, actorID)
	if err != nil {
		d.log.Warn("Actor lookup failed", "actor_id", actorID, "error", err)
		return domain.Actor{ID: actorID}
	}
	return user.Actor()
}

// RenderMessage returns the human readable text of a notification.
func RenderMessage(evt event.DomainEvent, actor domain.Actor) (string, error) {
	name := actor.Username
	if name == "" {
		name = "Someone"
	}
	switch evt.Kind {
	case event.PostLiked:
		return name + " liked your post", nil
	case event.PostCommented:
		if excerpt := evt.Metadata[event.MetaExcerpt]; excerpt != "" {
			return fmt.Sprintf("%s commented on your post: %q", name, excerpt), nil
		}
		return name + " commented on your post", nil
	case event.FriendRequestSent:
		return name + " sent you a friend request", nil
	case event.FriendRequestAccepted:
		return name + " accepted your friend request", nil
	case event.JobApplicationReceived:
		return fmt.Sprintf("%s applied to %s", name, jobTitle(evt)), nil
	case event.JobApplicationStatusChanged:
		return fmt.Sprintf("Your application to %s is now %s", jobTitle(evt), evt.Metadata[event.MetaStatus]), nil
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownEventKind, evt.Kind)
}

func jobTitle(evt event.DomainEvent) string {
	if title := evt.Metadata[event.MetaJobTitle]; title != "" {
		return title
	}
	return "your job"
}
