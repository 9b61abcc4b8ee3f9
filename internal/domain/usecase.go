package domain

import "time"

// UseCase groups tasks within a module.
// Fields are ordered to minimize memory padding.
type UseCase struct {
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
	ID             ID        `json:"id"`
	ModuleID       ID        `json:"moduleId"`
	CreatorID      ID        `json:"creatorId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	ImportantNotes string    `json:"importantNotes,omitempty"`
	Version        int64     `json:"version"`
	Active         bool      `json:"active"`
	EventRecorder  `json:"-"`
}

// NewUseCase creates an active use case.
func NewUseCase(id, moduleID, creatorID ID, title, description, notes string, now time.Time) (*UseCase, error) {
	u := &UseCase{ID: id, ModuleID: moduleID, CreatorID: creatorID, Active: true, Created: now}
	if err := u.apply(title, description, notes, now); err != nil {
		return nil, err
	}
	u.record(EventUseCaseCreated, id, map[string]any{"title": u.Title, "moduleId": moduleID.String()})
	return u, nil
}

// Update replaces the editable fields.
func (u *UseCase) Update(title, description, notes string, now time.Time) error {
	if err := u.apply(title, description, notes, now); err != nil {
		return err
	}
	u.record(EventUseCaseUpdated, u.ID, map[string]any{"title": u.Title})
	return nil
}

func (u *UseCase) apply(title, description, notes string, now time.Time) error {
	title, err := validateTitle(title, MaxTitleLength)
	if err != nil {
		return err
	}
	description, err = validateText("description", description, MaxDescriptionLength)
	if err != nil {
		return err
	}
	notes, err = validateText("important notes", notes, MaxImportantNotesLength)
	if err != nil {
		return err
	}
	u.Title = title
	u.Description = description
	u.ImportantNotes = notes
	u.Updated = now
	return nil
}

// Activate marks the use case active. Returns false if it already was.
func (u *UseCase) Activate(now time.Time) bool {
	if u.Active {
		return false
	}
	u.Active = true
	u.Updated = now
	u.record(EventUseCaseActivated, u.ID, nil)
	return true
}

// Archive marks the use case archived. Returns false if it already was.
func (u *UseCase) Archive(now time.Time) bool {
	if !u.Active {
		return false
	}
	u.Active = false
	u.Updated = now
	u.record(EventUseCaseArchived, u.ID, nil)
	return true
}

// MarkDeleted records the deletion of the use case.
func (u *UseCase) MarkDeleted() {
	u.record(EventUseCaseDeleted, u.ID, map[string]any{"title": u.Title})
}
