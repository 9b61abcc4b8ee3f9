package domain

import "time"

// Project is the root of the planning hierarchy.
// Fields are ordered to minimize memory padding.
type Project struct {
	Created       time.Time `json:"created"`               // Creation time
	Updated       time.Time `json:"updated"`               // Last modification time
	ID            ID        `json:"id"`                    // Project ID
	CreatorID     ID        `json:"creatorId"`             // User who created the project (implicit Owner)
	Title         string    `json:"title"`                 // Title (required)
	Description   string    `json:"description,omitempty"` // Description (optional)
	Version       int64     `json:"version"`               // Optimistic concurrency counter, maintained by stores
	Active        bool      `json:"active"`                // false = archived
	EventRecorder `json:"-"`
}

// NewProject creates an active project owned by creatorID.
func NewProject(id, creatorID ID, title, description string, now time.Time) (*Project, error) {
	title, err := validateTitle(title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err = validateText("description", description, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	p := &Project{
		ID:          id,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Active:      true,
		Created:     now,
		Updated:     now,
	}
	p.record(EventProjectCreated, id, map[string]any{"title": title, "creatorId": creatorID.String()})
	return p, nil
}

// Update replaces the title and description.
func (p *Project) Update(title, description string, now time.Time) error {
	title, err := validateTitle(title, MaxTitleLength)
	if err != nil {
		return err
	}
	description, err = validateText("description", description, MaxDescriptionLength)
	if err != nil {
		return err
	}
	p.Title = title
	p.Description = description
	p.Updated = now
	p.record(EventProjectUpdated, p.ID, map[string]any{"title": title})
	return nil
}

// SetActive activates or archives the project.
// Returns false when the project is already in the requested state.
func (p *Project) SetActive(active bool, now time.Time) bool {
	if p.Active == active {
		return false
	}
	p.Active = active
	p.Updated = now
	p.record(EventProjectStatusChanged, p.ID, map[string]any{"active": active})
	return true
}

// MarkDeleted records the deletion of the project.
func (p *Project) MarkDeleted() {
	p.record(EventProjectDeleted, p.ID, map[string]any{"title": p.Title})
}

// IsCreator reports whether userID created the project.
func (p *Project) IsCreator(userID ID) bool {
	return p.CreatorID == userID
}

// StatusDisplay returns "Active" or "Archived".
func StatusDisplay(active bool) string {
	if active {
		return "Active"
	}
	return "Archived"
}
