package matrix

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/dkoosis/specmatrix/pkg/serverspec"
)

// RoleSet is an unordered, duplicate-free set of role names. The zero value
// is the empty set. Roles are kept sorted so equal sets compare equal.
type RoleSet struct {
	roles []string
}

// NewRoleSet builds a role set from roles in any order.
func NewRoleSet(roles ...string) RoleSet {
	sorted := slices.Clone(roles)
	slices.Sort(sorted)
	return RoleSet{roles: slices.Compact(sorted)}
}

// RolesOf returns the distinct roles exercised by a host's examples.
// Examples without an identity contribute nothing.
func RolesOf(h serverspec.HostResult) RoleSet {
	var roles []string
	for _, e := range h.Results.Examples {
		if id, ok := Resolve(e); ok {
			roles = append(roles, id.Role)
		}
	}
	return NewRoleSet(roles...)
}

// DistinctRoleSets lists the distinct role sets of a report, larger sets
// first. Sets of equal size keep the order in which they were first seen.
func DistinctRoleSets(report serverspec.Report) []RoleSet {
	return distinct(hostRoleSets(report))
}

func hostRoleSets(report serverspec.Report) []RoleSet {
	sets := make([]RoleSet, len(report))
	for i, h := range report {
		sets[i] = RolesOf(h)
	}
	return sets
}

func distinct(sets []RoleSet) []RoleSet {
	seen := make(map[string]bool, len(sets))
	var out []RoleSet
	for _, rs := range sets {
		if seen[rs.Key()] {
			continue
		}
		seen[rs.Key()] = true
		out = append(out, rs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Len() > out[j].Len()
	})
	return out
}

// Roles returns the roles in ascending order.
func (rs RoleSet) Roles() []string {
	return slices.Clone(rs.roles)
}

// Len is the number of roles in the set.
func (rs RoleSet) Len() int {
	return len(rs.roles)
}

// Contains reports whether role is a member of the set.
func (rs RoleSet) Contains(role string) bool {
	_, found := slices.BinarySearch(rs.roles, role)
	return found
}

// Key is a canonical map key for the set.
func (rs RoleSet) Key() string {
	return strings.Join(rs.roles, "\x1f")
}

// Equal reports set equality.
func (rs RoleSet) Equal(other RoleSet) bool {
	return slices.Equal(rs.roles, other.roles)
}

// String renders the set as "(all, web)".
func (rs RoleSet) String() string {
	return "(" + strings.Join(rs.roles, ", ") + ")"
}

// MarshalJSON encodes the set as a sorted array of role names.
func (rs RoleSet) MarshalJSON() ([]byte, error) {
	roles := rs.roles
	if roles == nil {
		roles = []string{}
	}
	return json.Marshal(roles)
}
