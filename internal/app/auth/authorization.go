package auth

import (
	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// Action names a guarded mutation
type Action string

const (
	ActionClaimDonation  Action = "claim-donation"
	ActionDeleteDonation Action = "delete-donation"
	ActionDeletePost     Action = "delete-post"
	ActionDeleteComment  Action = "delete-comment"
)

var denyMessages = map[Action]string{
	ActionClaimDonation:  "You cannot claim your own donation",
	ActionDeleteDonation: "You can only delete your own donations",
	ActionDeletePost:     "Only the author or an admin can delete this post",
	ActionDeleteComment:  "You can only delete your own comments",
}

// Policy decides whether an actor may perform an action on a resource.
// It holds no state; every decision depends only on its arguments.
type Policy struct{}

// NewPolicy creates a new Policy
func NewPolicy() *Policy {
	return &Policy{}
}

// CanPerform reports whether actor may perform action on resource.
// Unknown actions and mismatched resource types are denied.
func (p *Policy) CanPerform(actor *models.User, action Action, resource any) bool {
	if actor == nil || actor.ID == "" {
		return false
	}

	switch action {
	case ActionClaimDonation:
		d, ok := resource.(*models.Donation)
		// Claimability by status is checked separately; only ownership matters here.
		return ok && d != nil && d.DonorID != actor.ID

	case ActionDeleteDonation:
		d, ok := resource.(*models.Donation)
		return ok && d != nil && d.DonorID == actor.ID

	case ActionDeletePost:
		post, ok := resource.(*models.Post)
		return ok && post != nil && (post.AuthorID == actor.ID || actor.IsAdmin())

	case ActionDeleteComment:
		c, ok := resource.(*models.Comment)
		return ok && c != nil && c.UserID == actor.ID
	}
	return false
}

// Authorize is CanPerform returning a forbidden error on denial.
func (p *Policy) Authorize(actor *models.User, action Action, resource any) error {
	if p.CanPerform(actor, action, resource) {
		return nil
	}
	msg, ok := denyMessages[action]
	if !ok {
		msg = "You don't have permission for this action"
	}
	return apperrors.NewForbiddenError(msg)
}
