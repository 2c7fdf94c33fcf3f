package test

import (
	"context"
	"fmt"

	"github.com/collabdata/roles/types"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var mp types.MembershipPersister

func TestMembershipPersister(p types.MembershipPersister) {
	mp = p
}

var MembershipCases = Describe("membership persister", func() {
	setMemberships := []types.Membership{
		{UserID: "alice", OrganizationID: "acme", Teams: []string{"research"}},
		{UserID: "bob", OrganizationID: "acme", Teams: []string{"research", "sales"}},
		{UserID: "alice", OrganizationID: "globex", Teams: []string{"ops"}},
	}
	updateMembership := types.Membership{
		UserID: "alice", OrganizationID: "acme", Teams: []string{"research", "ops"},
	}
	removeMemberships := []types.Membership{
		{UserID: "bob", OrganizationID: "acme"},
	}

	changes := make([]types.MembershipChange, 0, len(setMemberships)+1+len(removeMemberships))
	for _, m := range setMemberships {
		changes = append(changes, types.MembershipChange{Membership: m, Method: types.PersistInsert})
	}
	changes = append(changes, types.MembershipChange{Membership: updateMembership, Method: types.PersistUpdate})
	for _, m := range removeMemberships {
		changes = append(changes, types.MembershipChange{Membership: m, Method: types.PersistDelete})
	}

	It("should do membership curd", func() {
		By("removing an unknown membership changes nothing")
		Expect(mp.Remove("nobody", "acme")).To(Succeed())

		By("start watching membership changes")
		w, e := mp.Watch(context.Background())
		Expect(e).To(Succeed())

		go func() {
			defer GinkgoRecover()

			for _, m := range setMemberships {
				By(fmt.Sprintf("set %s in %s", m.UserID, m.OrganizationID))
				Expect(mp.Set(m)).To(Succeed())
			}

			By("set over an existing pair reports an update")
			Expect(mp.Set(updateMembership)).To(Succeed())

			for _, m := range removeMemberships {
				By(fmt.Sprintf("remove %s in %s", m.UserID, m.OrganizationID))
				Expect(mp.Remove(m.UserID, m.OrganizationID)).To(Succeed())
			}
		}()

		By("observe changes in sequence")
		for _, change := range changes {
			By(fmt.Sprintf("should observe %s %s in %s", change.Method, change.UserID, change.OrganizationID))
			got, ok := <-w
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(change))
		}

		By("after that, should not observe any changes more")
		Consistently(w).ShouldNot(Receive())

		By("list all memberships remained")
		Expect(mp.List()).To(ConsistOf(updateMembership, setMemberships[2]))
	})
})
