package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/collabdata/roles/internal/resolver"
	"github.com/collabdata/roles/types"
)

var _ = Describe("role normalization", func() {
	DescribeTable("implies the baseline Read",
		func(in, want types.RoleSet) {
			Expect(Normalize(in)).To(Equal(want))
		},
		Entry("data write",
			types.NewRoleSet(types.RoleDataWrite),
			types.NewRoleSet(types.RoleDataWrite, types.RoleRead)),
		Entry("data delete",
			types.NewRoleSet(types.RoleDataDelete),
			types.NewRoleSet(types.RoleDataDelete, types.RoleRead)),
		Entry("data contribute",
			types.NewRoleSet(types.RoleDataContribute),
			types.NewRoleSet(types.RoleDataContribute, types.RoleRead)),
		Entry("comment contribute",
			types.NewRoleSet(types.RoleCommentContribute),
			types.NewRoleSet(types.RoleCommentContribute, types.RoleRead)),
		Entry("attribute edit",
			types.NewRoleSet(types.RoleAttributeEdit),
			types.NewRoleSet(types.RoleAttributeEdit, types.RoleRead)),
		Entry("read alone stays read",
			types.NewRoleSet(types.RoleRead),
			types.NewRoleSet(types.RoleRead)),
		Entry("manage alone stays manage",
			types.NewRoleSet(types.RoleManage),
			types.NewRoleSet(types.RoleManage)),
		Entry("empty stays empty",
			types.NewRoleSet(),
			types.NewRoleSet()),
	)

	It("is idempotent for every subset of all role types", func() {
		// the closed set fits a uint32, so walk a generous sample of it
		for s := types.RoleSet(0); s <= types.AllRoleTypes; s += 13 {
			once := Normalize(s)
			Expect(Normalize(once)).To(Equal(once))
			Expect(s.IsIn(once)).To(BeTrue())
		}
	})
})
