package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/collabdata/roles/internal/resolver"
	"github.com/collabdata/roles/types"
)

var _ = Describe("member teams", func() {
	user := &types.User{
		ID: "dave",
		Teams: map[string][]string{
			"org-acme": {"research", "ops"},
		},
	}

	It("returns the team set within the organization", func() {
		Expect(MemberTeams(user, "org-acme")).To(Equal(map[string]struct{}{
			"research": {},
			"ops":      {},
		}))
	})

	It("degrades absent data to the empty set", func() {
		Expect(MemberTeams(user, "org-other")).To(BeEmpty())
		Expect(MemberTeams(nil, "org-acme")).To(BeEmpty())
	})
})

var _ = Describe("direct role aggregation", func() {
	permissions := types.Permissions{
		Users: []types.Permission{
			{PrincipalID: "alice", Roles: []types.Role{{Type: types.RoleRead, Transitive: true}}},
			{PrincipalID: "alice", Roles: []types.Role{{Type: types.RoleDataWrite}}},
			{PrincipalID: "research", Roles: []types.Role{{Type: types.RoleUserConfig}}},
		},
		Groups: []types.Permission{
			{PrincipalID: "research", Roles: []types.Role{{Type: types.RoleManage, Transitive: true}}},
			{PrincipalID: "ops", Roles: []types.Role{{Type: types.RoleTechConfig}}},
		},
	}

	It("unions duplicate entries for one principal", func() {
		roles := DirectRoles(permissions, types.UserPrincipal("alice"), nil)
		Expect(types.TypeSet(roles)).To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataWrite)))
		Expect(types.TransitiveTypeSet(roles)).To(Equal(types.NewRoleSet(types.RoleRead)))
	})

	It("merges own grants with grants of the principal's teams", func() {
		roles := DirectRoles(permissions, types.UserPrincipal("alice"), map[string]struct{}{"research": {}})
		Expect(types.TypeSet(roles)).To(Equal(
			types.NewRoleSet(types.RoleRead, types.RoleDataWrite, types.RoleManage)))
	})

	It("ignores team grants of teams the principal is not in", func() {
		roles := DirectRoles(permissions, types.UserPrincipal("bob"), map[string]struct{}{"qa": {}})
		Expect(roles).To(BeEmpty())
	})

	It("matches team principals against the group list only", func() {
		roles := DirectRoles(permissions, types.TeamPrincipal("research"), nil)
		Expect(types.TypeSet(roles)).To(Equal(types.NewRoleSet(types.RoleManage)))
	})

	It("resolves nothing for pending users", func() {
		roles := DirectRoles(permissions, types.PendingUserPrincipal("alice"), map[string]struct{}{"research": {}})
		Expect(roles).To(BeEmpty())
	})
})
