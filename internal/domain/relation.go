package domain

import "time"

// RelationType classifies a directed edge between two tasks.
type RelationType string

const (
	RelationBlocks     RelationType = "blocks"     // Source must be resolved before target can complete
	RelationRelatesTo  RelationType = "relates_to" // Informational link
	RelationFixes      RelationType = "fixes"      // Source fixes target
	RelationDuplicates RelationType = "duplicates" // Source duplicates target
)

// AllRelationTypes returns all valid relation types.
func AllRelationTypes() []RelationType {
	return []RelationType{RelationBlocks, RelationRelatesTo, RelationFixes, RelationDuplicates}
}

// ParseRelationType parses a relation type name.
func ParseRelationType(s string) (RelationType, error) {
	r := RelationType(normalizeEnum(s))
	for _, valid := range AllRelationTypes() {
		if r == valid {
			return r, nil
		}
	}
	return "", Invalid("relation type", "unknown relation type %q", s)
}

// TaskRelation is a directed edge from SourceID to TargetID.
type TaskRelation struct {
	Created  time.Time    `json:"created"`
	ID       ID           `json:"id"`
	SourceID ID           `json:"sourceId"`
	TargetID ID           `json:"targetId"`
	Type     RelationType `json:"type"`
}

// NewTaskRelation creates a relation. Self-relations are rejected.
func NewTaskRelation(id, sourceID, targetID ID, typ RelationType, now time.Time) (*TaskRelation, error) {
	if _, err := ParseRelationType(string(typ)); err != nil {
		return nil, err
	}
	if sourceID == targetID {
		return nil, Violation(ErrSelfRelation, "")
	}
	return &TaskRelation{ID: id, SourceID: sourceID, TargetID: targetID, Type: typ, Created: now}, nil
}

// UnresolvedBlockers returns the sources of Blocks edges into taskID whose
// state is neither completed nor cancelled. incoming holds the relations
// targeting taskID and states maps source task IDs to their current state.
func UnresolvedBlockers(taskID ID, incoming []*TaskRelation, states map[ID]TaskState) []ID {
	var blockers []ID
	for _, r := range incoming {
		if r.Type != RelationBlocks || r.TargetID != taskID {
			continue
		}
		if state, ok := states[r.SourceID]; ok && !state.IsResolved() {
			blockers = append(blockers, r.SourceID)
		}
	}
	return blockers
}
