package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/collabdata/roles/internal/resolver"
	td "github.com/collabdata/roles/internal/testdata"
	"github.com/collabdata/roles/types"
)

var _ = Describe("link type resolution", func() {
	collections := map[string]*types.Collection{
		td.Tasks.ID:   td.Tasks,
		td.Clients.ID: td.Clients,
	}

	Describe("derived from the endpoint collections", func() {
		It("intersects the roles held on both endpoints", func() {
			// eve: {Read, DataWrite} on Tasks, {Read} on Clients
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Assignments, collections, td.Eve, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead)))
		})

		It("keeps transitive roles present on both sides", func() {
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Assignments, collections, td.Dave, research)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleManage)))
		})

		It("denies when either endpoint is unreadable", func() {
			// bob's project roles are not transitive, so he reads
			// neither collection
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Assignments, collections, td.Bob, nil).IsEmpty()).
				To(BeTrue())
		})

		It("denies when an endpoint is missing", func() {
			partial := map[string]*types.Collection{td.Tasks.ID: td.Tasks}
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Assignments, partial, td.Eve, nil).IsEmpty()).
				To(BeTrue())
		})
	})

	Describe("with custom permissions", func() {
		It("resolves the link type's own grants through the hierarchy", func() {
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Audits, collections, td.Bob, nil)).
				To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataRead)))
		})

		It("still gates on the ancestors", func() {
			Expect(LinkTypeRoles(td.Acme, td.Tracker, td.Audits, collections, td.Carol, nil).IsEmpty()).
				To(BeTrue())
		})
	})

	Describe("through a view", func() {
		It("delegates the author's link type roles", func() {
			base, withView := LinkTypeRolesInView(
				td.Acme, td.Tracker, td.Assignments, collections, td.Overview, td.Frank, nil)

			Expect(base).To(Equal(types.NewRoleSet(types.RoleRead)))
			Expect(withView).To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataRead)))
		})

		It("ignores link types outside the view query", func() {
			base, withView := LinkTypeRolesInView(
				td.Acme, td.Tracker, td.Audits, collections, td.Overview, td.Frank, nil)

			Expect(withView).To(Equal(base))
		})
	})
})
