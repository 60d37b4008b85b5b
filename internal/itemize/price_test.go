package itemize

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RepairPrice", func() {
	DescribeTable("repairing tokens",
		func(in, want string, repaired bool) {
			got, ok := RepairPrice(in)
			Expect(got).To(Equal(want))
			Expect(ok).To(Equal(repaired))
		},
		Entry("single letter prefix", "O.99", "0.99", true),
		Entry("other single letter", "D.50", "0.50", true),
		Entry("two letter prefix stays broken", "OO.99", "0.O99", true),
		Entry("no prefix", ".99", "99", true),
		Entry("well-formed price untouched", "2.50", "2.50", false),
		Entry("lowercase prefix untouched", "o.99", "o.99", false),
		Entry("diacritic prefix untouched", "Č.99", "Č.99", false),
		Entry("three digits untouched", "O.999", "O.999", false),
	)
})

var _ = Describe("IsPrice", func() {
	DescribeTable("matching prices",
		func(in string, want bool) {
			Expect(IsPrice(in)).To(Equal(want))
		},
		Entry("two decimals", "2.50", true),
		Entry("large value", "1234.00", true),
		Entry("one decimal", "2.5", false),
		Entry("no decimals", "250", false),
		Entry("comma separator", "2,50", false),
		Entry("currency suffix", "2.50 EUR", false),
		Entry("leading space", " 2.50", false),
		Entry("repaired garbage", "0.O99", false),
	)
})

var _ = Describe("ParseCents", func() {
	DescribeTable("parsing amounts",
		func(in string, want int, ok bool) {
			got, parsed := ParseCents(in)
			Expect(parsed).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("two decimals", "4.30", 430, true),
		Entry("one decimal", "4.3", 430, true),
		Entry("integer", "20", 2000, true),
		Entry("leading zeros", "007.05", 705, true),
		Entry("three decimals", "4.305", 0, false),
		Entry("trailing dot", "4.", 0, false),
		Entry("empty", "", 0, false),
		Entry("letters", "O.99", 0, false),
		Entry("negative", "-4.30", 0, false),
		Entry("surrounding space", " 4.30", 0, false),
		Entry("overflow", "999999999999999999999", 0, false),
	)
})

var _ = Describe("FormatCents", func() {
	DescribeTable("formatting amounts",
		func(in int, want string) {
			Expect(FormatCents(in)).To(Equal(want))
		},
		Entry("zero", 0, "0.00"),
		Entry("cents only", 7, "0.07"),
		Entry("whole amount", 430, "4.30"),
		Entry("negative", -1070, "-10.70"),
	)
})

var _ = Describe("IsName", func() {
	DescribeTable("matching names",
		func(in string, want bool) {
			Expect(IsName(in)).To(Equal(want))
		},
		Entry("two words", "KRUH BIJELI", true),
		Entry("abbreviated first word", "MLIJ. SVJEŽE", true),
		Entry("trailing text", "SIR EDAMER 1kg", true),
		Entry("Croatian capitals", "ĆEVAPI ŽAR", true),
		Entry("tab separated", "KRUH\tBIJELI", true),
		Entry("single word", "UKUPNO", false),
		Entry("second token is a number", "KRUH 500G", false),
		Entry("second token is lowercase", "KRUH bijeli", false),
		Entry("lowercase start", "kruh BIJELI", false),
		Entry("leading space", " KRUH BIJELI", false),
		Entry("price", "2.50", false),
	)
})

var _ = Describe("Segment", func() {
	It("should return no lines for empty text", func() {
		Expect(Segment("")).To(BeEmpty())
	})

	It("should keep empty lines and their positions", func() {
		Expect(Segment("A\n\nB")).To(Equal([]Line{
			{Index: 0, Content: "A"},
			{Index: 1, Content: ""},
			{Index: 2, Content: "B"},
		}))
	})

	It("should split on CRLF without leaving carriage returns", func() {
		Expect(Segment("A\r\nB")).To(Equal([]Line{
			{Index: 0, Content: "A"},
			{Index: 1, Content: "B"},
		}))
	})

	It("should keep a carriage return that ends no line", func() {
		Expect(Segment("A\nB\r")).To(Equal([]Line{
			{Index: 0, Content: "A"},
			{Index: 1, Content: "B\r"},
		}))
	})

	It("should keep a carriage return inside a line", func() {
		Expect(Segment("A\rB\r\nC")).To(Equal([]Line{
			{Index: 0, Content: "A\rB"},
			{Index: 1, Content: "C"},
		}))
	})

	It("should not trim whitespace", func() {
		Expect(Segment("  A  ")).To(Equal([]Line{{Index: 0, Content: "  A  "}}))
	})

	It("should keep a trailing empty line", func() {
		Expect(Segment("A\n")).To(HaveLen(2))
	})
})
