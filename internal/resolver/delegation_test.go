package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/collabdata/roles/internal/resolver"
	td "github.com/collabdata/roles/internal/testdata"
	"github.com/collabdata/roles/types"
)

var _ = Describe("view-scoped delegation", func() {
	It("delegates only what the view grants the principal", func() {
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Tasks, td.Overview, td.Frank, nil)

		Expect(base).To(Equal(types.NewRoleSet(types.RoleRead)))
		Expect(withView).To(Equal(types.NewRoleSet(types.RoleRead, types.RoleDataRead, types.RoleDataWrite)))
	})

	It("cannot escalate beyond the principal's own view roles", func() {
		// alice merely reads the view, so the author's delegation map
		// lends her nothing
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Tasks, td.Overview, td.Alice, nil)

		Expect(withView).To(Equal(base))

		viewRoles := ResourceRoles(td.Acme, td.Tracker, td.Overview.Permissions, td.Alice, nil)
		Expect(withView.IsIn(base.Union(viewRoles))).To(BeTrue())
	})

	It("leaves resources outside the view query untouched", func() {
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Clients, td.Overview, td.Frank, nil)

		Expect(base).To(Equal(types.NewRoleSet(types.RoleRead)))
		Expect(withView).To(Equal(base))
	})

	It("stays a subset of direct-or-inherited plus view roles for everyone", func() {
		for _, principal := range []types.Principal{td.Alice, td.Bob, td.Carol, td.Eve, td.Frank} {
			base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Tasks, td.Overview, principal, nil)
			viewRoles := ResourceRoles(td.Acme, td.Tracker, td.Overview.Permissions, principal, nil)

			Expect(base.IsIn(withView)).To(BeTrue())
			Expect(withView.IsIn(base.Union(viewRoles))).To(BeTrue())
		}
	})

	It("resolves the plain roles without a view in context", func() {
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Tasks, nil, td.Frank, nil)

		Expect(base).To(Equal(types.NewRoleSet(types.RoleRead)))
		Expect(withView).To(Equal(base))
	})

	It("denies a missing collection", func() {
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, nil, td.Overview, td.Frank, nil)

		Expect(base.IsEmpty()).To(BeTrue())
		Expect(withView.IsEmpty()).To(BeTrue())
	})

	It("gives an unreadable view nothing to delegate", func() {
		// carol cannot read the organization, so she has no view roles
		// to intersect with the delegation map
		base, withView := CollectionRolesInView(td.Acme, td.Tracker, td.Tasks, td.Overview, td.Carol, nil)

		Expect(base.IsEmpty()).To(BeTrue())
		Expect(withView.IsEmpty()).To(BeTrue())
	})
})
