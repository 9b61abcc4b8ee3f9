package domain

import "time"

// Module groups use cases within a project.
// Fields are ordered to minimize memory padding.
type Module struct {
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
	ID            ID        `json:"id"`
	ProjectID     ID        `json:"projectId"`
	CreatorID     ID        `json:"creatorId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Version       int64     `json:"version"`
	Active        bool      `json:"active"`
	EventRecorder `json:"-"`
}

// NewModule creates an active module.
func NewModule(id, projectID, creatorID ID, title, description string, now time.Time) (*Module, error) {
	title, err := validateTitle(title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err = validateText("description", description, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	m := &Module{
		ID:          id,
		ProjectID:   projectID,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Active:      true,
		Created:     now,
		Updated:     now,
	}
	m.record(EventModuleCreated, id, map[string]any{"title": title})
	return m, nil
}

// Update replaces the title and description.
func (m *Module) Update(title, description string, now time.Time) error {
	title, err := validateTitle(title, MaxTitleLength)
	if err != nil {
		return err
	}
	description, err = validateText("description", description, MaxDescriptionLength)
	if err != nil {
		return err
	}
	m.Title = title
	m.Description = description
	m.Updated = now
	m.record(EventModuleUpdated, m.ID, map[string]any{"title": title})
	return nil
}

// Activate marks the module active. Returns false if it already was.
// The caller checks that the parent project is active.
func (m *Module) Activate(now time.Time) bool {
	if m.Active {
		return false
	}
	m.Active = true
	m.Updated = now
	m.record(EventModuleActivated, m.ID, nil)
	return true
}

// Archive marks the module archived. Returns false if it already was.
func (m *Module) Archive(now time.Time) bool {
	if !m.Active {
		return false
	}
	m.Active = false
	m.Updated = now
	m.record(EventModuleArchived, m.ID, nil)
	return true
}

// MarkDeleted records the deletion of the module.
func (m *Module) MarkDeleted() {
	m.record(EventModuleDeleted, m.ID, map[string]any{"title": m.Title})
}
