package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/collabdata/roles/internal/resolver"
	td "github.com/collabdata/roles/internal/testdata"
	"github.com/collabdata/roles/types"
)

var research = map[string]struct{}{td.Research: {}}

var _ = Describe("hierarchical resolution", func() {
	Describe("at the organization", func() {
		It("resolves direct grants", func() {
			Expect(OrganizationRoles(td.Acme, td.Alice, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead)))
		})

		It("resolves team grants for members", func() {
			Expect(OrganizationRoles(td.Acme, td.Dave, research)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleManage)))
		})

		It("denies principals without any grant", func() {
			Expect(OrganizationRoles(td.Acme, td.Carol, nil).IsEmpty()).To(BeTrue())
		})

		It("denies on a missing organization", func() {
			Expect(OrganizationRoles(nil, td.Alice, nil).IsEmpty()).To(BeTrue())
		})
	})

	Describe("at the project", func() {
		It("carries transitive organization roles down", func() {
			Expect(ProjectRoles(td.Acme, td.Tracker, td.Alice, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead)))
			Expect(ProjectRoles(td.Acme, td.Tracker, td.Dave, research)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleManage)))
		})

		It("adds all direct project roles at the leaf", func() {
			Expect(ProjectRoles(td.Acme, td.Tracker, td.Bob, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleTechConfig)))
		})

		It("denies without Read at the organization, whatever the project grants", func() {
			Expect(ProjectRoles(td.Acme, td.Tracker, td.Carol, nil).IsEmpty()).To(BeTrue())
		})
	})

	Describe("at a resource under the project", func() {
		It("combines inherited and direct roles", func() {
			// the end-to-end scenario: transitive Read at the
			// organization, nothing at the project, DataRead directly
			// on the collection
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, td.Alice, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataRead)))
		})

		It("carries transitive team roles to every resource", func() {
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, td.Dave, research)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleManage)))
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Overview.Permissions, td.Dave, research)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleManage)))
		})

		It("contains non-transitive project roles at the project", func() {
			// bob's Read and TechConfig are project-local
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, td.Bob, nil).IsEmpty()).
				To(BeTrue())
		})

		It("denies when the organization never granted Read", func() {
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, td.Carol, nil).IsEmpty()).
				To(BeTrue())
		})

		It("normalizes data roles up to Read", func() {
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, td.Eve, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataWrite)))
		})

		It("denies pending users everywhere", func() {
			pending := types.PendingUserPrincipal("alice")
			Expect(ResourceRoles(td.Acme, td.Tracker, td.Tasks.Permissions, pending, nil).IsEmpty()).
				To(BeTrue())
		})
	})

	Describe("with a broken project link", func() {
		org := &types.Organization{
			ID: "o",
			Permissions: types.Permissions{
				Users: []types.Permission{
					{PrincipalID: "u", Roles: []types.Role{{Type: types.RoleRead}}},
				},
			},
		}
		project := &types.Project{ID: "p", OrganizationID: "o"}
		grants := types.Permissions{
			Users: []types.Permission{
				{PrincipalID: "u", Roles: []types.Role{{Type: types.RoleManage}}},
			},
		}

		It("denies below a project without Read from anywhere", func() {
			// organization Read is not transitive and the project
			// grants nothing, so the chain breaks at the project
			Expect(ResourceRoles(org, project, grants, types.UserPrincipal("u"), nil).IsEmpty()).
				To(BeTrue())
		})

		It("denies on missing ancestors", func() {
			Expect(ResourceRoles(nil, project, grants, types.UserPrincipal("u"), nil).IsEmpty()).To(BeTrue())
			Expect(ResourceRoles(org, nil, grants, types.UserPrincipal("u"), nil).IsEmpty()).To(BeTrue())
		})
	})
})
