// internal/domain/models/cohort.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cohort is a capacity-bounded group of users pursuing the same goal,
// subdivided into index-addressed teams.
//
// NOTE:
//   - A goal may have many cohorts over time; new ones are created once
//     earlier cohorts run out of member slots.
//   - Teams are only ever appended, never removed or reordered, so a
//     member's team assignment can be stored as a plain index.
//   - MemberSlotsRemaining caches membersMax - len(members) so that a
//     cohort with space can be found with a single indexed query. It is
//     maintained incrementally and repaired on the create path (see the
//     cohort service).
type Cohort struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Goal                 primitive.ObjectID `bson:"goal" json:"goal"`
	Teams                []CohortTeam       `bson:"teams" json:"teams"`
	MembersMax           int                `bson:"members_max" json:"members_max"`
	MemberSlotsRemaining int                `bson:"member_slots_remaining" json:"member_slots_remaining"`
	Members              []CohortMember     `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CohortTeam is a named subdivision of a cohort. Its identity is its
// position in Cohort.Teams. InviteCode may be empty until first requested.
type CohortTeam struct {
	Name       string `bson:"name" json:"name"`
	Icon       string `bson:"icon" json:"icon"`
	InviteCode string `bson:"invite_code,omitempty" json:"invite_code,omitempty"`
}

// CohortMember joins a user to a cohort. TeamIndex is the authoritative
// team assignment; an index rather than a team reference so that bulk
// rebalancing is a sparse set of scalar updates.
type CohortMember struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	TeamIndex int                `bson:"team_index" json:"team_index"`
}

// MemberIndex returns the position of the given user in Members, or -1.
func (c *Cohort) MemberIndex(user primitive.ObjectID) int {
	for i, m := range c.Members {
		if m.User == user {
			return i
		}
	}
	return -1
}

// TeamOf returns the team index the given user is assigned to, or -1 if
// the user is not a member.
func (c *Cohort) TeamOf(user primitive.ObjectID) int {
	if i := c.MemberIndex(user); i >= 0 {
		return c.Members[i].TeamIndex
	}
	return -1
}
