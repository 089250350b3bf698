package session

import (
	"sort"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// InstanceGroup is one rendering unit: either a superset-style group of
// two or more instances or a singleton.
type InstanceGroup struct {
	GroupID *uuid.UUID                `json:"group_id,omitempty"`
	Type    models.GroupType          `json:"type,omitempty"`
	Members []models.ExerciseInstance `json:"members"`
}

// GroupInstances partitions instances into display groups: sort by
// declared order, then a single left-to-right walk. The first member of
// each group id with at least two members emits the whole group (members
// sorted by group order); a lone instance carrying a group id is treated
// as ungrouped. The partition preserves overall workout order and never
// reorders across groups.
func GroupInstances(instances []models.ExerciseInstance) []InstanceGroup {
	ordered := make([]models.ExerciseInstance, len(instances))
	copy(ordered, instances)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	members := make(map[uuid.UUID][]models.ExerciseInstance)
	for _, in := range ordered {
		if in.GroupID != nil {
			members[*in.GroupID] = append(members[*in.GroupID], in)
		}
	}

	seen := make(map[uuid.UUID]bool)
	var groups []InstanceGroup
	for _, in := range ordered {
		if in.GroupID != nil && len(members[*in.GroupID]) >= 2 {
			if seen[*in.GroupID] {
				continue
			}
			seen[*in.GroupID] = true
			grp := make([]models.ExerciseInstance, len(members[*in.GroupID]))
			copy(grp, members[*in.GroupID])
			sort.SliceStable(grp, func(i, j int) bool {
				return grp[i].GroupOrder < grp[j].GroupOrder
			})
			groups = append(groups, InstanceGroup{
				GroupID: in.GroupID,
				Type:    in.GroupType,
				Members: grp,
			})
			continue
		}
		groups = append(groups, InstanceGroup{
			Members: []models.ExerciseInstance{in},
		})
	}
	return groups
}
