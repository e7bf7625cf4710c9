// Package event declares the domain events published by services after a mutation commits.
package event

import (
	"time"
)

// Kind is the closed set of domain events that can raise a notification.
type Kind string

const (
	PostLiked                   Kind = "POST_LIKED"
	PostCommented               Kind = "POST_COMMENTED"
	FriendRequestSent           Kind = "FRIEND_REQUEST_SENT"
	FriendRequestAccepted       Kind = "FRIEND_REQUEST_ACCEPTED"
	JobApplicationReceived      Kind = "JOB_APPLICATION_RECEIVED"
	JobApplicationStatusChanged Kind = "JOB_APPLICATION_STATUS_CHANGED"
)

// Namespace groups kinds so a subscriber can listen to a whole family.
type Namespace string

const (
	NamespacePost   Namespace = "post"
	NamespaceFriend Namespace = "friend"
	NamespaceJob    Namespace = "job"
)

var namespaces = map[Kind]Namespace{
	PostLiked:                   NamespacePost,
	PostCommented:               NamespacePost,
	FriendRequestSent:           NamespaceFriend,
	FriendRequestAccepted:       NamespaceFriend,
	JobApplicationReceived:      NamespaceJob,
	JobApplicationStatusChanged: NamespaceJob,
}

// AllKinds lists every declared kind in a stable order.
func AllKinds() []Kind {
	return []Kind{
		PostLiked,
		PostCommented,
		FriendRequestSent,
		FriendRequestAccepted,
		JobApplicationReceived,
		JobApplicationStatusChanged,
	}
}

func (k Kind) Valid() bool {
	_, ok := namespaces[k]
	return ok
}

// Namespace returns the family of k, or "" for an undeclared kind.
func (k Kind) Namespace() Namespace {
	return namespaces[k]
}

// Metadata keys carried by events.
const (
	MetaPostID        = "postId"
	MetaCommentID     = "commentId"
	MetaRequestID     = "requestId"
	MetaJobID         = "jobId"
	MetaJobTitle      = "jobTitle"
	MetaApplicationID = "applicationId"
	MetaStatus        = "status"
	MetaExcerpt       = "excerpt"
)

// DomainEvent is transient: it only lives for the duration of Publish.
type DomainEvent struct {
	Kind         Kind
	TargetUserID string
	ActorUserID  string
	Metadata     map[string]string
	OccurredAt   time.Time
}

func New(kind Kind, target, actor string, metadata map[string]string) DomainEvent {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return DomainEvent{
		Kind:         kind,
		TargetUserID: target,
		ActorUserID:  actor,
		Metadata:     metadata,
		OccurredAt:   time.Now().UTC(),
	}
}

// IsSelfDirected is true when the actor acts on their own resource.
func (e DomainEvent) IsSelfDirected() bool {
	return e.ActorUserID == e.TargetUserID
}
