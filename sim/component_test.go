package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComponentBase", func() {
	var comp *ComponentBase

	BeforeEach(func() {
		comp = NewComponentBase("Comp")
	})

	It("should set and get name", func() {
		Expect(comp.Name()).To(Equal("Comp"))
	})

	It("should list ports sorted by name", func() {
		top := NewPort(nil, 1, 1, "Comp.TopPort")
		bottom := NewPort(nil, 1, 1, "Comp.BottomPort")
		comp.AddPort("Top", top)
		comp.AddPort("Bottom", bottom)

		Expect(comp.GetPortByName("Top")).To(BeIdenticalTo(top))
		Expect(comp.Ports()).To(Equal([]Port{bottom, top}))
	})

	It("should panic on duplicated ports", func() {
		comp.AddPort("Top", NewPort(nil, 1, 1, "Comp.TopPort"))

		Expect(func() {
			comp.AddPort("Top", NewPort(nil, 1, 1, "Comp.TopPort2"))
		}).To(Panic())
	})

	It("should panic on unknown ports", func() {
		Expect(func() { comp.GetPortByName("Left") }).To(Panic())
	})
})

var _ = Describe("Naming", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).NotTo(Panic())
		},
		Entry("single", "Cache"),
		Entry("hierarchy", "Cache.TopPort"),
		Entry("index", "Bank[2].Port"),
		Entry("multi index", "Grid[1][2]"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).To(Panic())
		},
		Entry("empty", ""),
		Entry("trailing dot", "Cache."),
		Entry("lower case", "cache"),
		Entry("underscore", "Top_Port"),
		Entry("dash", "Top-Port"),
		Entry("unclosed bracket", "Bank[2"),
		Entry("non integer index", "Bank[a]"),
		Entry("garbage after index", "Bank[1]x"),
	)

	It("should build names", func() {
		Expect(BuildName("", "Cache")).To(Equal("Cache"))
		Expect(BuildName("Sys", "Cache")).To(Equal("Sys.Cache"))
		Expect(BuildNameWithIndex("Sys", "Bank", 3)).To(Equal("Sys.Bank[3]"))
	})
})
