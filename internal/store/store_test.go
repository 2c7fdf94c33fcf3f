package store_test

import (
	"github.com/go-logr/logr"

	"github.com/collabdata/roles/internal/store"
	"github.com/collabdata/roles/internal/testdata"
	"github.com/collabdata/roles/types"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("snapshot store", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New(logr.Discard())
		for _, resource := range testdata.Resources() {
			Expect(s.ApplyResource(types.ResourceChange{
				Resource: resource,
				Kind:     resource.ResourceKind(),
				ID:       resource.ResourceID(),
				Method:   types.PersistInsert,
			})).To(Succeed())
		}
		for _, m := range testdata.Memberships() {
			Expect(s.ApplyMembership(types.MembershipChange{
				Membership: m,
				Method:     types.PersistInsert,
			})).To(Succeed())
		}
	})

	It("serves applied snapshots by id", func() {
		Expect(s.Organization(testdata.Acme.ID)).To(Equal(testdata.Acme))
		Expect(s.Project(testdata.Tracker.ID)).To(Equal(testdata.Tracker))
		Expect(s.Collection(testdata.Tasks.ID)).To(Equal(testdata.Tasks))
		Expect(s.LinkType(testdata.Audits.ID)).To(Equal(testdata.Audits))
		Expect(s.View(testdata.Overview.ID)).To(Equal(testdata.Overview))
	})

	It("returns nil for unknown ids", func() {
		Expect(s.Organization("no such org")).To(BeNil())
		Expect(s.Collection("no such collection")).To(BeNil())
		Expect(s.User("nobody")).To(BeNil())
	})

	It("skips missing ids in batch getters", func() {
		colls := s.Collections(testdata.Tasks.ID, "gone", testdata.Clients.ID)
		Expect(colls).To(HaveLen(2))
		Expect(colls[testdata.Tasks.ID]).To(Equal(testdata.Tasks))

		links := s.LinkTypes(testdata.Assignments.ID, "gone")
		Expect(links).To(ConsistOf(testdata.Assignments))
	})

	It("replaces a snapshot on update", func() {
		updated := *testdata.Tasks
		updated.Name = "Tasks v2"
		Expect(s.ApplyResource(types.ResourceChange{
			Resource: &updated,
			Kind:     types.KindCollection,
			ID:       updated.ID,
			Method:   types.PersistUpdate,
		})).To(Succeed())

		Expect(s.Collection(testdata.Tasks.ID).Name).To(Equal("Tasks v2"))
	})

	It("drops a snapshot on delete", func() {
		Expect(s.ApplyResource(types.ResourceChange{
			Kind:   types.KindView,
			ID:     testdata.Overview.ID,
			Method: types.PersistDelete,
		})).To(Succeed())

		Expect(s.View(testdata.Overview.ID)).To(BeNil())
	})

	It("bumps the generation on every applied change", func() {
		before := s.Generation()

		Expect(s.ApplyResource(types.ResourceChange{
			Resource: testdata.Acme,
			Kind:     types.KindOrganization,
			ID:       testdata.Acme.ID,
			Method:   types.PersistUpdate,
		})).To(Succeed())
		Expect(s.Generation()).To(Equal(before + 1))

		Expect(s.ApplyMembership(types.MembershipChange{
			Membership: types.Membership{UserID: "dave", OrganizationID: testdata.Acme.ID, Teams: []string{"ops"}},
			Method:     types.PersistUpdate,
		})).To(Succeed())
		Expect(s.Generation()).To(Equal(before + 2))
	})

	It("rejects unknown kinds and methods", func() {
		Expect(s.ApplyResource(types.ResourceChange{
			Kind:   types.ResourceKind("widget"),
			ID:     "w1",
			Method: types.PersistDelete,
		})).To(MatchError(types.ErrUnknownResourceKind))

		Expect(s.ApplyResource(types.ResourceChange{
			Resource: testdata.Acme,
			Kind:     types.KindOrganization,
			ID:       testdata.Acme.ID,
			Method:   types.PersistMethod("upsert"),
		})).To(MatchError(types.ErrUnsupportedChange))

		Expect(s.ApplyMembership(types.MembershipChange{
			Membership: types.Membership{UserID: "dave", OrganizationID: testdata.Acme.ID},
			Method:     types.PersistMethod("merge"),
		})).To(MatchError(types.ErrUnsupportedChange))
	})

	Describe("membership snapshots", func() {
		It("keeps previously handed out users untouched", func() {
			before := s.User("dave")
			Expect(before.Teams[testdata.Acme.ID]).To(ConsistOf(testdata.Research))

			Expect(s.ApplyMembership(types.MembershipChange{
				Membership: types.Membership{
					UserID:         "dave",
					OrganizationID: testdata.Acme.ID,
					Teams:          []string{"ops"},
				},
				Method: types.PersistUpdate,
			})).To(Succeed())

			Expect(before.Teams[testdata.Acme.ID]).To(ConsistOf(testdata.Research))
			Expect(s.User("dave").Teams[testdata.Acme.ID]).To(ConsistOf("ops"))
		})

		It("forgets a user whose last membership is removed", func() {
			Expect(s.ApplyMembership(types.MembershipChange{
				Membership: types.Membership{UserID: "dave", OrganizationID: testdata.Acme.ID},
				Method:     types.PersistDelete,
			})).To(Succeed())

			Expect(s.User("dave")).To(BeNil())
		})

		It("keeps other organizations when one membership is removed", func() {
			Expect(s.ApplyMembership(types.MembershipChange{
				Membership: types.Membership{UserID: "dave", OrganizationID: "org-globex", Teams: []string{"ops"}},
				Method:     types.PersistInsert,
			})).To(Succeed())

			Expect(s.ApplyMembership(types.MembershipChange{
				Membership: types.Membership{UserID: "dave", OrganizationID: testdata.Acme.ID},
				Method:     types.PersistDelete,
			})).To(Succeed())

			user := s.User("dave")
			Expect(user).NotTo(BeNil())
			Expect(user.Teams).To(HaveKey("org-globex"))
			Expect(user.Teams).NotTo(HaveKey(testdata.Acme.ID))
		})
	})
})
