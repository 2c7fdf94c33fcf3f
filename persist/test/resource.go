// Package test holds shared conformance cases every persister
// implementation should pass. A persister package calls the setters
// from a BeforeSuite and references the exported cases.
package test

import (
	"context"
	"fmt"

	"github.com/collabdata/roles/types"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var rp types.ResourcePersister

func TestResourcePersister(p types.ResourcePersister) {
	rp = p
}

var ResourceCases = Describe("resource persister", func() {
	insertResources := []types.ResourceSnapshot{
		&types.Organization{ID: "acme", Code: "ACME"},
		&types.Project{ID: "tracker", OrganizationID: "acme", Code: "TRK"},
		&types.Collection{ID: "tasks", ProjectID: "tracker"},
		&types.LinkType{ID: "assignments", ProjectID: "tracker", CollectionIDs: [2]string{"tasks", "tasks"}},
		&types.View{ID: "overview", ProjectID: "tracker"},
	}
	updateResource := &types.Collection{
		ID:        "tasks",
		ProjectID: "tracker",
		Permissions: types.Permissions{
			Users: []types.Permission{{
				PrincipalID: "alice",
				Roles:       []types.Role{{Type: types.RoleRead}},
			}},
		},
	}
	removeResources := []types.ResourceSnapshot{
		insertResources[3],
		insertResources[4],
	}

	changes := make([]types.ResourceChange, 0, len(insertResources)+1+len(removeResources))
	for _, resource := range insertResources {
		changes = append(changes, types.ResourceChange{
			Resource: resource,
			Kind:     resource.ResourceKind(),
			ID:       resource.ResourceID(),
			Method:   types.PersistInsert,
		})
	}
	changes = append(changes, types.ResourceChange{
		Resource: updateResource,
		Kind:     updateResource.ResourceKind(),
		ID:       updateResource.ResourceID(),
		Method:   types.PersistUpdate,
	})
	for _, resource := range removeResources {
		changes = append(changes, types.ResourceChange{
			Kind:   resource.ResourceKind(),
			ID:     resource.ResourceID(),
			Method: types.PersistDelete,
		})
	}

	It("should do resource snapshot curd", func() {
		By("removing an unknown resource changes nothing")
		Expect(rp.Remove(types.KindCollection, "no such collection")).To(Succeed())

		By("start watching resource changes")
		w, e := rp.Watch(context.Background())
		Expect(e).To(Succeed())

		go func() {
			defer GinkgoRecover()

			for _, resource := range insertResources {
				By(fmt.Sprintf("insert %s %s", resource.ResourceKind(), resource.ResourceID()))
				Expect(rp.Upsert(resource)).To(Succeed())
			}

			By("upsert over an existing id reports an update")
			Expect(rp.Upsert(updateResource)).To(Succeed())

			for _, resource := range removeResources {
				By(fmt.Sprintf("remove %s %s", resource.ResourceKind(), resource.ResourceID()))
				Expect(rp.Remove(resource.ResourceKind(), resource.ResourceID())).To(Succeed())
			}
		}()

		By("observe changes in sequence")
		for _, change := range changes {
			By(fmt.Sprintf("should observe %s %s %s", change.Method, change.Kind, change.ID))
			got, ok := <-w
			Expect(ok).To(BeTrue())
			Expect(got.Kind).To(Equal(change.Kind))
			Expect(got.ID).To(Equal(change.ID))
			Expect(got.Method).To(Equal(change.Method))
			if change.Method == types.PersistDelete {
				Expect(got.Resource).To(BeNil())
			} else {
				Expect(got.Resource).To(Equal(change.Resource))
			}
		}

		By("after that, should not observe any changes more")
		Consistently(w).ShouldNot(Receive())

		By("list all snapshots remained")
		Expect(rp.List()).To(ConsistOf(
			insertResources[0], insertResources[1], updateResource))
	})
})
