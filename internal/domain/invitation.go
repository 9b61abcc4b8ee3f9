package domain

import "time"

// InvitationStatus is the derived state of an invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// Invitation offers a project role to an email address.
// Only the SHA-256 hash of the invitation token is stored.
// Fields are ordered to minimize memory padding.
type Invitation struct {
	Created       time.Time  `json:"created"`
	Expires       time.Time  `json:"expires"`
	Accepted      *time.Time `json:"accepted,omitempty"`
	Cancelled     *time.Time `json:"cancelled,omitempty"`
	ID            ID         `json:"id"`
	ProjectID     ID         `json:"projectId"`
	InvitedBy     ID         `json:"invitedBy"`
	AcceptedBy    ID         `json:"acceptedBy,omitempty"`
	Email         string     `json:"email"`
	TokenHash     string     `json:"tokenHash"`
	Version       int64      `json:"version"`
	Role          Role       `json:"role"`
	EventRecorder `json:"-"`
}

// NewInvitation creates a pending invitation that expires after expirationDays.
func NewInvitation(id, projectID, invitedBy ID, email string, role Role, tokenHash string, expirationDays int, now time.Time) (*Invitation, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsGrantable() {
		return nil, Violation(ErrOwnerRoleNotAssignable, "")
	}
	if expirationDays <= 0 {
		expirationDays = DefaultExpirationDays
	}
	inv := &Invitation{
		ID:        id,
		ProjectID: projectID,
		InvitedBy: invitedBy,
		Email:     email,
		Role:      role,
		TokenHash: tokenHash,
		Created:   now,
		Expires:   now.AddDate(0, 0, expirationDays),
	}
	inv.record(EventInvitationSent, projectID, map[string]any{
		"invitationId": id.String(),
		"email":        email,
		"role":         role.String(),
	})
	return inv, nil
}

// Status derives the invitation status at now.
func (i *Invitation) Status(now time.Time) InvitationStatus {
	switch {
	case i.Accepted != nil:
		return InvitationAccepted
	case i.Cancelled != nil:
		return InvitationCancelled
	case !now.Before(i.Expires):
		return InvitationExpired
	default:
		return InvitationPending
	}
}

// Accept marks the invitation accepted by userID, whose directory email must
// match the invited address.
func (i *Invitation) Accept(userID ID, email string, now time.Time) error {
	if err := i.requirePending(now); err != nil {
		return err
	}
	if NormalizeEmail(email) != i.Email {
		return Violation(ErrInvitationRecipient, "")
	}
	accepted := now
	i.Accepted = &accepted
	i.AcceptedBy = userID
	i.record(EventInvitationAccepted, i.ProjectID, map[string]any{
		"invitationId": i.ID.String(),
		"userId":       userID.String(),
		"role":         i.Role.String(),
	})
	return nil
}

// Cancel withdraws a pending invitation.
func (i *Invitation) Cancel(now time.Time) error {
	if err := i.requirePending(now); err != nil {
		return err
	}
	cancelled := now
	i.Cancelled = &cancelled
	i.record(EventInvitationCancelled, i.ProjectID, map[string]any{"invitationId": i.ID.String()})
	return nil
}

func (i *Invitation) requirePending(now time.Time) error {
	switch i.Status(now) {
	case InvitationPending:
		return nil
	case InvitationExpired:
		return Violation(ErrInvitationExpired, "")
	default:
		return Violation(ErrInvitationNotPending, string(i.Status(now)))
	}
}
