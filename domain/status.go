package domain

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationReviewing ApplicationStatus = "REVIEWING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationSubmitted: {ApplicationReviewing, ApplicationAccepted, ApplicationRejected},
	ApplicationReviewing: {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionTo reports whether a recruiter may move an application from s to next.
// ACCEPTED and REJECTED are terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationReviewing, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}
